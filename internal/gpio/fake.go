package gpio

import (
	"context"
	"sync"
	"time"
)

// FakeInput is a test double for an edge-detecting input line.
// Set drives the line; a change of level wakes the matching waiters.
type FakeInput struct {
	notifier

	mu        sync.Mutex
	level     bool
	readErr   error
	waitErr   error
	readCalls int
}

// NewFakeInput creates a FakeInput at the given level.
func NewFakeInput(level bool) *FakeInput {
	return &FakeInput{level: level}
}

// Set drives the line to level. Setting the current level is not an edge.
func (f *FakeInput) Set(level bool) {
	f.mu.Lock()
	changed := f.level != level
	f.level = level
	f.mu.Unlock()

	if changed {
		f.notify(level)
	}
}

// SetReadError makes Level return err until cleared with nil.
func (f *FakeInput) SetReadError(err error) {
	f.mu.Lock()
	f.readErr = err
	f.mu.Unlock()
}

// SetWaitError makes WaitForEdge return err immediately until cleared with nil.
func (f *FakeInput) SetWaitError(err error) {
	f.mu.Lock()
	f.waitErr = err
	f.mu.Unlock()
}

// WaitForEdge blocks until Set produces a matching edge.
func (f *FakeInput) WaitForEdge(ctx context.Context, edge Edge) error {
	if err := f.waitError(); err != nil {
		return err
	}
	return f.wait(ctx, edge)
}

// WaitForEdgeSince blocks until Set produces a matching edge, or returns at
// once if one was produced after mark.
func (f *FakeInput) WaitForEdgeSince(ctx context.Context, edge Edge, mark Mark) error {
	if err := f.waitError(); err != nil {
		return err
	}
	return f.waitSince(ctx, edge, &mark)
}

func (f *FakeInput) waitError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.waitErr
}

// Level returns the driven level.
func (f *FakeInput) Level() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readCalls++
	if f.readErr != nil {
		return false, f.readErr
	}
	return f.level, nil
}

// ReadCalls returns how many times Level was called.
func (f *FakeInput) ReadCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readCalls
}

// Waiters returns the number of goroutines blocked in WaitForEdge.
func (f *FakeInput) Waiters() int { return f.waiting() }

// AwaitWaiters blocks until at least n goroutines are blocked in WaitForEdge.
// Tests use it so an edge is not fired before the task under test is listening.
func (f *FakeInput) AwaitWaiters(ctx context.Context, n int) error {
	for f.waiting() < n {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
	return nil
}

// Transition is one recorded change of a FakeOutput.
type Transition struct {
	Level bool
	At    time.Time
}

// FakeOutput records every level it is driven to.
type FakeOutput struct {
	mu          sync.Mutex
	level       bool
	transitions []Transition
	err         error
	now         func() time.Time
}

// NewFakeOutput creates a FakeOutput at the given level.
func NewFakeOutput(level bool) *FakeOutput {
	return &FakeOutput{level: level, now: time.Now}
}

// SetError makes every write fail with err until cleared with nil.
func (f *FakeOutput) SetError(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *FakeOutput) SetHigh() error { return f.set(func(bool) bool { return true }) }
func (f *FakeOutput) SetLow() error  { return f.set(func(bool) bool { return false }) }
func (f *FakeOutput) Toggle() error  { return f.set(func(l bool) bool { return !l }) }

func (f *FakeOutput) set(next func(bool) bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.level = next(f.level)
	f.transitions = append(f.transitions, Transition{Level: f.level, At: f.now()})
	return nil
}

// Level returns the current level.
func (f *FakeOutput) Level() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.level, nil
}

// Transitions returns a copy of the recorded writes.
func (f *FakeOutput) Transitions() []Transition {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Transition, len(f.transitions))
	copy(out, f.transitions)
	return out
}
