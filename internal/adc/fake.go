package adc

import (
	"errors"
	"sync"
)

// FakeChannel is a test double that returns scripted samples.
type FakeChannel struct {
	mu sync.Mutex

	// samples are returned in order; the last one repeats once exhausted.
	samples []uint16
	index   int
	reads   int
	err     error
}

// NewFakeChannel creates a FakeChannel with the given samples.
func NewFakeChannel(samples ...uint16) *FakeChannel {
	return &FakeChannel{samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeChannel) Read() (uint16, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++

	if f.err != nil {
		return 0, f.err
	}
	if len(f.samples) == 0 {
		return 0, errors.New("no samples configured")
	}

	v := f.samples[f.index]
	if f.index < len(f.samples)-1 {
		f.index++
	}
	return v, nil
}

// SetError makes Read fail with err until cleared with nil.
func (f *FakeChannel) SetError(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

// SetSamples replaces the script and rewinds it.
func (f *FakeChannel) SetSamples(samples ...uint16) {
	f.mu.Lock()
	f.samples = samples
	f.index = 0
	f.mu.Unlock()
}

// Reads returns how many times Read was called.
func (f *FakeChannel) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}
