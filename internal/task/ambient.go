package task

import (
	"context"
	"time"

	"github.com/sweeney/boopbox/internal/logic"
	"github.com/sweeney/boopbox/internal/queue"
	"github.com/sweeney/boopbox/internal/store"
)

// AmbientReporter periodically reports the ambient-light sample.
type AmbientReporter struct {
	samples  *store.SampleStore
	channel  int
	messages *queue.Queue[logic.StatusMessage]
}

// NewAmbientReporter creates a reporter for the given channel.
func NewAmbientReporter(samples *store.SampleStore, channel int, messages *queue.Queue[logic.StatusMessage]) *AmbientReporter {
	return &AmbientReporter{samples: samples, channel: channel, messages: messages}
}

// Report formats the current reading.
func (r *AmbientReporter) Report() logic.StatusMessage {
	v, ok := r.samples.At(r.channel)
	return logic.NewStatusMessage("ambient", logic.AmbientReport(v, ok))
}

// Run sends one report per tick until ctx is done.
func (r *AmbientReporter) Run(ctx context.Context, tick <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
		}
		if err := r.messages.Send(ctx, r.Report()); err != nil {
			return nil
		}
	}
}
