package task

import (
	"testing"

	"github.com/sweeney/boopbox/internal/logic"
	"github.com/sweeney/boopbox/internal/queue"
	"github.com/sweeney/boopbox/internal/store"
)

func TestAggregatorReportsFullSnapshot(t *testing.T) {
	digital := store.NewDigitalStore(4)
	digital.Set(0, true)
	digital.Set(3, true)
	a := NewAggregator(nil, digital, nil)

	for _, ev := range []logic.Event{logic.Pulse(), logic.LineChange(0, true), logic.LineChange(2, false)} {
		msg := a.Handle(ev)
		if msg.Text != "Button Board: 1 0 0 1" {
			t.Errorf("%v: got %q", ev, msg.Text)
		}
		if msg.Source != "aggregator" {
			t.Errorf("source: got %q", msg.Source)
		}
	}
}

func TestAggregatorOneMessagePerEvent(t *testing.T) {
	ctx := testCtx(t)
	digital := store.NewDigitalStore(4)
	digital.Set(1, true)
	events := queue.New[logic.Event](4)
	messages := queue.New[logic.StatusMessage](8)

	// A burst queued before the aggregator drains is reported once per
	// event, even though every message shows the same state.
	for i := 0; i < 3; i++ {
		if !events.TrySend(logic.Pulse()) {
			t.Fatal("queue full")
		}
	}
	go NewAggregator(events, digital, messages).Run(ctx)

	for i := 0; i < 3; i++ {
		msg, err := messages.Recv(ctx)
		if err != nil {
			t.Fatalf("message %d: %v", i, err)
		}
		if msg.Text != "Button Board: 0 1 0 0" {
			t.Errorf("message %d: got %q", i, msg.Text)
		}
	}
	if messages.Len() != 0 || events.Len() != 0 {
		t.Errorf("leftover: %d messages, %d events", messages.Len(), events.Len())
	}
}

func TestAggregatorSeesLatestStateAtDequeue(t *testing.T) {
	ctx := testCtx(t)
	digital := store.NewDigitalStore(2)
	events := queue.New[logic.Event](4)
	messages := queue.New[logic.StatusMessage](8)
	go NewAggregator(events, digital, messages).Run(ctx)

	digital.Set(0, true)
	events.Send(ctx, logic.LineChange(0, true))
	msg, err := messages.Recv(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if msg.Text != "Button Board: 1 0" {
		t.Errorf("got %q", msg.Text)
	}

	digital.Set(1, true)
	events.Send(ctx, logic.LineChange(1, true))
	msg, err = messages.Recv(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if msg.Text != "Button Board: 1 1" {
		t.Errorf("got %q", msg.Text)
	}
}
