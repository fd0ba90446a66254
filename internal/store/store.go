// Package store holds the shared sample state written by producer tasks and
// read by consumer tasks.
//
// Both stores guard their contents with a sync.Mutex whose critical sections
// are a single assignment or copy, so lock hold time is bounded.
package store

import (
	"fmt"
	"sync"

	"github.com/sweeney/boopbox/internal/fault"
)

// SampleVector is one reading per analog channel, index = channel.
// Its length is 0 (not yet sampled) or exactly the channel count.
type SampleVector = Vec[uint16]

// NewSampleVector returns an empty vector for n channels.
func NewSampleVector(n int) SampleVector {
	return NewVec[uint16](n)
}

// SampleStore holds the latest complete SampleVector.
type SampleStore struct {
	n int

	mu      sync.Mutex
	samples []uint16 // nil until the first publish; never mutated after publish
	gen     uint64
}

// NewSampleStore creates a store for n analog channels.
func NewSampleStore(n int) *SampleStore {
	return &SampleStore{n: n}
}

// Channels returns the number of analog channels.
func (s *SampleStore) Channels() int { return s.n }

// Publish replaces the stored vector wholesale. Readers see either the
// previous vector or v, never a mix.
func (s *SampleStore) Publish(v SampleVector) error {
	if v.Len() != s.n {
		return fault.Fatal("publish samples",
			fmt.Errorf("got %d samples, want %d: %w", v.Len(), s.n, fault.ErrCapacity))
	}
	vals := v.Values()

	s.mu.Lock()
	s.samples = vals
	s.gen++
	s.mu.Unlock()
	return nil
}

// Read returns a copy of the latest snapshot. Before the first publish the
// returned vector is empty.
func (s *SampleStore) Read() SampleVector {
	s.mu.Lock()
	cur := s.samples
	s.mu.Unlock()

	out := NewSampleVector(s.n)
	_ = out.Extend(cur...) // len(cur) is 0 or n
	return out
}

// At returns the latest sample for channel i. ok is false before the first
// publish or when i is out of range.
func (s *SampleStore) At(i int) (v uint16, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.samples) {
		return 0, false
	}
	return s.samples[i], true
}

// Sampled reports whether at least one vector has been published.
func (s *SampleStore) Sampled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.samples != nil
}

// Generation returns the number of publishes so far.
func (s *SampleStore) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// DigitalStore holds one level per monitored digital line. Each index has a
// single writer (its edge monitor); the lock gives readers an atomic view of
// the whole vector.
type DigitalStore struct {
	mu     sync.Mutex
	levels []bool
}

// NewDigitalStore creates a store for m lines, all low.
func NewDigitalStore(m int) *DigitalStore {
	return &DigitalStore{levels: make([]bool, m)}
}

// Len returns the number of lines.
func (d *DigitalStore) Len() int { return len(d.levels) }

// Set records the level of one line.
func (d *DigitalStore) Set(line int, level bool) error {
	if line < 0 || line >= len(d.levels) {
		return fault.Fatal("set digital level",
			fmt.Errorf("line %d of %d: %w", line, len(d.levels), fault.ErrCapacity))
	}
	d.mu.Lock()
	d.levels[line] = level
	d.mu.Unlock()
	return nil
}

// Level returns the recorded level of one line.
func (d *DigitalStore) Level(line int) (level, ok bool) {
	if line < 0 || line >= len(d.levels) {
		return false, false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.levels[line], true
}

// Snapshot returns a copy of all levels taken under one lock.
func (d *DigitalStore) Snapshot() []bool {
	out := make([]bool, len(d.levels))
	d.mu.Lock()
	copy(out, d.levels)
	d.mu.Unlock()
	return out
}
