package task

import (
	"context"

	"github.com/sweeney/boopbox/internal/logic"
	"github.com/sweeney/boopbox/internal/queue"
	"github.com/sweeney/boopbox/internal/store"
)

// Aggregator turns every event into a message describing the whole digital
// state at the time the event is dequeued. Events are not deduplicated.
type Aggregator struct {
	events   *queue.Queue[logic.Event]
	digital  *store.DigitalStore
	messages *queue.Queue[logic.StatusMessage]
}

// NewAggregator creates the aggregator.
func NewAggregator(events *queue.Queue[logic.Event], digital *store.DigitalStore, messages *queue.Queue[logic.StatusMessage]) *Aggregator {
	return &Aggregator{events: events, digital: digital, messages: messages}
}

// Handle formats the message for one event. Both event kinds read the full
// snapshot.
func (a *Aggregator) Handle(logic.Event) logic.StatusMessage {
	return logic.NewStatusMessage("aggregator", logic.ButtonBoard(a.digital.Snapshot()))
}

// Run forwards one message per event until ctx is done.
func (a *Aggregator) Run(ctx context.Context) error {
	for {
		ev, err := a.events.Recv(ctx)
		if err != nil {
			return nil
		}
		if err := a.messages.Send(ctx, a.Handle(ev)); err != nil {
			return nil
		}
	}
}
