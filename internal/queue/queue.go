// Package queue provides the bounded FIFO and signal primitives tasks use to
// talk to each other.
package queue

import (
	"context"
	"sync"
)

// Queue is a bounded FIFO. Send suspends while the queue is full and Recv
// suspends while it is empty; nothing is dropped or overwritten.
type Queue[T any] struct {
	ch chan T
}

// New creates a queue holding at most capacity items.
func New[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue[T]{ch: make(chan T, capacity)}
}

// Send enqueues v, waiting for space. It only fails when ctx is done.
func (q *Queue[T]) Send(ctx context.Context, v T) error {
	select {
	case q.ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySend enqueues v if there is space.
func (q *Queue[T]) TrySend(v T) bool {
	select {
	case q.ch <- v:
		return true
	default:
		return false
	}
}

// Recv dequeues the oldest item, waiting until one is available.
func (q *Queue[T]) Recv(ctx context.Context) (T, error) {
	select {
	case v := <-q.ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// TryRecv dequeues the oldest item if there is one.
func (q *Queue[T]) TryRecv() (T, bool) {
	select {
	case v := <-q.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

func (q *Queue[T]) Len() int { return len(q.ch) }
func (q *Queue[T]) Cap() int { return cap(q.ch) }

// Signal is a latch holding the most recent value raised on it. Waiters are
// released by the first Raise; later raises only replace the value.
type Signal[T any] struct {
	once  sync.Once
	ready chan struct{}

	mu  sync.Mutex
	val T
	set bool
}

// NewSignal creates an unraised signal.
func NewSignal[T any]() *Signal[T] {
	return &Signal[T]{ready: make(chan struct{})}
}

// Raise stores v and releases all waiters.
func (s *Signal[T]) Raise(v T) {
	s.mu.Lock()
	s.val = v
	s.set = true
	s.mu.Unlock()
	s.once.Do(func() { close(s.ready) })
}

// Wait blocks until the signal has been raised and returns the latest value.
func (s *Signal[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-s.ready:
		v, _ := s.Peek()
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Peek returns the latest value without waiting.
func (s *Signal[T]) Peek() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.val, s.set
}

// Done is closed once the signal has been raised.
func (s *Signal[T]) Done() <-chan struct{} { return s.ready }
