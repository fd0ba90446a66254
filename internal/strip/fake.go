package strip

import (
	"sync"

	"github.com/sweeney/boopbox/internal/logic"
)

// FakeTransport records the frames written to it.
type FakeTransport struct {
	mu       sync.Mutex
	frames   [][]logic.Color
	limit    int // 0 keeps every frame
	writes   int
	attempts int
	failN    int
	err      error
	written  chan struct{}
}

// NewFakeTransport creates an empty FakeTransport.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{written: make(chan struct{}, 1024)}
}

// NewBoundedFakeTransport creates a FakeTransport that keeps only the last n
// frames, for long-running simulations.
func NewBoundedFakeTransport(n int) *FakeTransport {
	f := NewFakeTransport()
	if n < 1 {
		n = 1
	}
	f.limit = n
	return f
}

// FailNext makes the next n writes fail with err.
func (f *FakeTransport) FailNext(n int, err error) {
	f.mu.Lock()
	f.failN = n
	f.err = err
	f.mu.Unlock()
}

// WriteFrame records a copy of frame, or fails if a failure is scheduled.
func (f *FakeTransport) WriteFrame(frame []logic.Color) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.failN > 0 {
		f.failN--
		return f.err
	}
	cp := make([]logic.Color, len(frame))
	copy(cp, frame)
	if f.limit > 0 && len(f.frames) == f.limit {
		n := copy(f.frames, f.frames[1:])
		f.frames = f.frames[:n]
	}
	f.frames = append(f.frames, cp)
	f.writes++

	select {
	case f.written <- struct{}{}:
	default:
	}
	return nil
}

// Frames returns the retained frames, oldest first.
func (f *FakeTransport) Frames() [][]logic.Color {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]logic.Color, len(f.frames))
	copy(out, f.frames)
	return out
}

// Writes returns the number of successful writes, retained or not.
func (f *FakeTransport) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

// Attempts returns the number of WriteFrame calls, successful or not.
func (f *FakeTransport) Attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

// Written receives once per successful write.
func (f *FakeTransport) Written() <-chan struct{} { return f.written }
