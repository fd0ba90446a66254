package strip

import (
	"errors"
	"reflect"
	"testing"

	"github.com/sweeney/boopbox/internal/logic"
)

func TestEncodeRGB(t *testing.T) {
	got := encodeRGB([]logic.Color{{R: 1, G: 2, B: 3}, logic.Off, {R: 255}})
	want := []byte{1, 2, 3, 0, 0, 0, 255, 0, 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFakeTransportRecordsCopies(t *testing.T) {
	f := NewFakeTransport()
	frame := []logic.Color{{R: 255}, logic.Off}

	if err := f.WriteFrame(frame); err != nil {
		t.Fatal(err)
	}
	frame[0] = logic.Off

	frames := f.Frames()
	if len(frames) != 1 {
		t.Fatalf("frames: got %d, want 1", len(frames))
	}
	if frames[0][0] != (logic.Color{R: 255}) {
		t.Error("recorded frame should not alias the caller's slice")
	}
	select {
	case <-f.Written():
	default:
		t.Error("expected a write notification")
	}
}

func TestFakeTransportFailNext(t *testing.T) {
	f := NewFakeTransport()
	f.FailNext(2, errors.New("spi busy"))

	for i := 0; i < 2; i++ {
		if err := f.WriteFrame(nil); err == nil {
			t.Errorf("write %d: expected failure", i)
		}
	}
	if err := f.WriteFrame(nil); err != nil {
		t.Errorf("third write: %v", err)
	}
	if f.Attempts() != 3 {
		t.Errorf("Attempts: got %d, want 3", f.Attempts())
	}
	if len(f.Frames()) != 1 {
		t.Errorf("Frames: got %d, want 1", len(f.Frames()))
	}
}

func TestBoundedFakeTransportKeepsLastFrames(t *testing.T) {
	f := NewBoundedFakeTransport(3)
	for i := 0; i < 10; i++ {
		if err := f.WriteFrame([]logic.Color{{R: uint8(i)}}); err != nil {
			t.Fatal(err)
		}
	}

	frames := f.Frames()
	if len(frames) != 3 {
		t.Fatalf("Frames: got %d, want 3", len(frames))
	}
	for i, want := range []uint8{7, 8, 9} {
		if frames[i][0].R != want {
			t.Errorf("frame %d: got R=%d, want %d", i, frames[i][0].R, want)
		}
	}
	if f.Writes() != 10 {
		t.Errorf("Writes: got %d, want 10", f.Writes())
	}
}
