package logic

import (
	"reflect"
	"testing"
)

var red = Color{R: 255}

func litPositions(frame []Color) []int {
	var lit []int
	for i, c := range frame {
		if c != Off {
			lit = append(lit, i)
		}
	}
	return lit
}

func TestChaseFrame(t *testing.T) {
	c := Chase{Length: 11, Spacing: 11, On: red}

	tests := []struct {
		k    int
		want []int
	}{
		{0, []int{0}},
		{5, []int{5}},
		{10, []int{10}},
	}
	for _, tt := range tests {
		frame := c.Frame(tt.k)
		if len(frame) != 11 {
			t.Fatalf("k=%d: frame length %d, want 11", tt.k, len(frame))
		}
		if got := litPositions(frame); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("k=%d: lit %v, want %v", tt.k, got, tt.want)
		}
		if frame[tt.k] != red {
			t.Errorf("k=%d: lit color %+v, want %+v", tt.k, frame[tt.k], red)
		}
	}
}

func TestChaseFrameRepeatsEverySpacing(t *testing.T) {
	c := Chase{Length: 10, Spacing: 3, On: red}
	if got, want := litPositions(c.Frame(1)), []int{1, 4, 7}; !reflect.DeepEqual(got, want) {
		t.Errorf("lit %v, want %v", got, want)
	}
}

func TestSweepTriangle(t *testing.T) {
	const s = 11
	sw := NewSweep(s)
	if sw.CycleLen() != 2*s {
		t.Fatalf("CycleLen: got %d, want %d", sw.CycleLen(), 2*s)
	}

	var got []int
	for i := 0; i < 2*s; i++ {
		got = append(got, sw.Next())
	}
	want := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("first cycle: got %v, want %v", got, want)
	}

	// The next cycle starts over on the forward leg.
	if !sw.Forward() {
		t.Error("expected forward leg at start of second cycle")
	}
	if k := sw.Next(); k != 0 {
		t.Errorf("second cycle first cursor: got %d, want 0", k)
	}
}

func TestSweepFramesPerCycle(t *testing.T) {
	c := Chase{Length: 11, Spacing: 11, On: red}
	sw := NewSweep(11)

	frames := make([][]Color, 0, 22)
	for i := 0; i < sw.CycleLen(); i++ {
		frames = append(frames, c.Frame(sw.Next()))
	}
	// Reverse leg mirrors the forward leg.
	for i := 0; i < 11; i++ {
		if !reflect.DeepEqual(frames[i], frames[21-i]) {
			t.Errorf("frame %d does not mirror frame %d", i, 21-i)
		}
	}
}

func TestSweepDegenerateSpacing(t *testing.T) {
	sw := NewSweep(0)
	for i := 0; i < 4; i++ {
		if k := sw.Next(); k != 0 {
			t.Fatalf("step %d: got %d, want 0", i, k)
		}
	}
}
