package store

import (
	"fmt"

	"github.com/sweeney/boopbox/internal/fault"
)

// Vec is a fixed-capacity sequence. Push past the capacity fails with
// fault.ErrCapacity instead of growing.
type Vec[T any] struct {
	items []T
}

// NewVec returns an empty Vec that holds at most capacity items.
func NewVec[T any](capacity int) Vec[T] {
	return Vec[T]{items: make([]T, 0, capacity)}
}

// Push appends v.
func (v *Vec[T]) Push(item T) error {
	if len(v.items) == cap(v.items) {
		return fmt.Errorf("push item %d of %d: %w", len(v.items)+1, cap(v.items), fault.ErrCapacity)
	}
	v.items = append(v.items, item)
	return nil
}

// Extend appends all items or none of them.
func (v *Vec[T]) Extend(items ...T) error {
	if len(v.items)+len(items) > cap(v.items) {
		return fmt.Errorf("extend by %d with %d free: %w", len(items), cap(v.items)-len(v.items), fault.ErrCapacity)
	}
	v.items = append(v.items, items...)
	return nil
}

func (v Vec[T]) Len() int { return len(v.items) }
func (v Vec[T]) Cap() int { return cap(v.items) }

// At returns the item at i and whether i is in range.
func (v Vec[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(v.items) {
		var zero T
		return zero, false
	}
	return v.items[i], true
}

// Values returns a copy of the items.
func (v Vec[T]) Values() []T {
	out := make([]T, len(v.items))
	copy(out, v.items)
	return out
}
