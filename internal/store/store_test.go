package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/sweeney/boopbox/internal/fault"
)

func TestVecCapacity(t *testing.T) {
	v := NewVec[uint16](2)
	if err := v.Push(1); err != nil {
		t.Fatalf("push 1: %v", err)
	}
	if err := v.Push(2); err != nil {
		t.Fatalf("push 2: %v", err)
	}

	err := v.Push(3)
	if !errors.Is(err, fault.ErrCapacity) {
		t.Fatalf("push 3: expected ErrCapacity, got %v", err)
	}
	if !fault.IsFatal(err) {
		t.Error("capacity overflow should be fatal")
	}
	if v.Len() != 2 {
		t.Errorf("Len: got %d, want 2", v.Len())
	}
}

func TestVecExtendAllOrNothing(t *testing.T) {
	v := NewVec[bool](3)
	if err := v.Extend(true, false); err != nil {
		t.Fatalf("extend: %v", err)
	}
	if err := v.Extend(true, true); !errors.Is(err, fault.ErrCapacity) {
		t.Fatalf("expected ErrCapacity, got %v", err)
	}
	if v.Len() != 2 {
		t.Errorf("Len after failed extend: got %d, want 2", v.Len())
	}
	if _, ok := v.At(2); ok {
		t.Error("At(2) should be out of range")
	}
}

func TestReadBeforeFirstPublish(t *testing.T) {
	s := NewSampleStore(8)

	if s.Sampled() {
		t.Error("expected Sampled=false before first publish")
	}
	if got := s.Read(); got.Len() != 0 {
		t.Errorf("Read: got %d samples, want 0", got.Len())
	}
	if _, ok := s.At(0); ok {
		t.Error("At(0) should report not yet sampled")
	}
	if s.Generation() != 0 {
		t.Errorf("Generation: got %d, want 0", s.Generation())
	}
}

func TestPublishAndRead(t *testing.T) {
	s := NewSampleStore(4)
	v := NewSampleVector(4)
	if err := v.Extend(10, 20, 30, 40); err != nil {
		t.Fatal(err)
	}

	if err := s.Publish(v); err != nil {
		t.Fatalf("publish: %v", err)
	}

	got := s.Read()
	if got.Len() != 4 {
		t.Fatalf("Read: got %d samples, want 4", got.Len())
	}
	for i, want := range []uint16{10, 20, 30, 40} {
		if val, _ := got.At(i); val != want {
			t.Errorf("channel %d: got %d, want %d", i, val, want)
		}
	}
	if val, ok := s.At(2); !ok || val != 30 {
		t.Errorf("At(2): got (%d, %v), want (30, true)", val, ok)
	}
	if s.Generation() != 1 {
		t.Errorf("Generation: got %d, want 1", s.Generation())
	}
}

func TestPublishWrongLength(t *testing.T) {
	s := NewSampleStore(4)
	v := NewSampleVector(3)
	_ = v.Extend(1, 2, 3)

	err := s.Publish(v)
	if !fault.IsFatal(err) {
		t.Fatalf("expected fatal error, got %v", err)
	}
	if s.Sampled() {
		t.Error("a rejected publish must not change the store")
	}
}

func TestReadCopyIsIndependent(t *testing.T) {
	s := NewSampleStore(2)
	v := NewSampleVector(2)
	_ = v.Extend(1, 2)
	_ = s.Publish(v)

	// Mutating the published vector afterwards must not leak into the store.
	vals := v.Values()
	vals[0] = 99
	if got, _ := s.At(0); got != 1 {
		t.Errorf("At(0): got %d, want 1", got)
	}
}

// TestPublishAtomicity publishes vectors whose elements are all equal and
// checks that concurrent readers never see a mix of two generations.
func TestPublishAtomicity(t *testing.T) {
	const n = 8
	s := NewSampleStore(n)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				vals := s.Read().Values()
				for i := 1; i < len(vals); i++ {
					if vals[i] != vals[0] {
						t.Errorf("torn read: %v", vals)
						return
					}
				}
			}
		}()
	}

	for k := 0; k < 2000; k++ {
		v := NewSampleVector(n)
		for i := 0; i < n; i++ {
			_ = v.Push(uint16(k))
		}
		if err := s.Publish(v); err != nil {
			t.Fatalf("publish %d: %v", k, err)
		}
	}
	close(stop)
	wg.Wait()
}

func TestDigitalSetOnlyTouchesOwnIndex(t *testing.T) {
	const m = 4
	for line := 0; line < m; line++ {
		d := NewDigitalStore(m)
		if err := d.Set(line, true); err != nil {
			t.Fatalf("Set(%d): %v", line, err)
		}
		snap := d.Snapshot()
		for i, level := range snap {
			if want := i == line; level != want {
				t.Errorf("line %d set: index %d = %v, want %v", line, i, level, want)
			}
		}
	}
}

func TestDigitalSetOutOfRange(t *testing.T) {
	d := NewDigitalStore(4)
	if err := d.Set(4, true); !fault.IsFatal(err) {
		t.Errorf("expected fatal error, got %v", err)
	}
	if _, ok := d.Level(-1); ok {
		t.Error("Level(-1) should not be ok")
	}
}

func TestDigitalSnapshotIsCopy(t *testing.T) {
	d := NewDigitalStore(2)
	snap := d.Snapshot()
	snap[0] = true
	if level, _ := d.Level(0); level {
		t.Error("modifying a snapshot must not change the store")
	}
}
