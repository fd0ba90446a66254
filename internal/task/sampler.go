package task

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sweeney/boopbox/internal/adc"
	"github.com/sweeney/boopbox/internal/fault"
	"github.com/sweeney/boopbox/internal/queue"
	"github.com/sweeney/boopbox/internal/status"
	"github.com/sweeney/boopbox/internal/store"
)

// Sampler reads every analog channel on each tick and publishes the vector.
type Sampler struct {
	channels []adc.Channel
	samples  *store.SampleStore
	ready    *queue.Signal[uint64]
	rec      Recorder
}

// NewSampler creates a sampler over channels. ready is raised with the store
// generation after every successful publish; it may be nil.
func NewSampler(channels []adc.Channel, samples *store.SampleStore, ready *queue.Signal[uint64], rec Recorder) *Sampler {
	return &Sampler{channels: channels, samples: samples, ready: ready, rec: orNop(rec)}
}

// Cycle reads channels 0..N-1 in order and publishes them. A failed read
// skips the cycle and leaves the last published vector in place.
func (s *Sampler) Cycle() error {
	v := store.NewSampleVector(s.samples.Channels())
	for i, ch := range s.channels {
		val, err := ch.Read()
		if err != nil {
			s.rec.Inc(status.SampleErrors)
			return fault.Recoverable("sample", fmt.Errorf("read channel %d: %w", i, err))
		}
		if err := v.Push(val); err != nil {
			return fault.Fatal("sample", err)
		}
	}

	if err := s.samples.Publish(v); err != nil {
		return err
	}
	s.rec.Inc(status.SampleCycles)

	gen := s.samples.Generation()
	if gen == 1 {
		s.rec.SetReady()
	}
	if s.ready != nil {
		s.ready.Raise(gen)
	}
	return nil
}

// Run samples once per tick until ctx is done or a cycle fails fatally.
func (s *Sampler) Run(ctx context.Context, tick <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
		}

		if err := s.Cycle(); err != nil {
			if fault.IsFatal(err) {
				return err
			}
			log.Printf("sampler: %v", err)
		}
	}
}
