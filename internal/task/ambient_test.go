package task

import (
	"testing"
	"time"

	"github.com/sweeney/boopbox/internal/logic"
	"github.com/sweeney/boopbox/internal/queue"
	"github.com/sweeney/boopbox/internal/store"
)

func TestAmbientReporter(t *testing.T) {
	ctx := testCtx(t)
	samples := store.NewSampleStore(2)
	messages := queue.New[logic.StatusMessage](4)
	r := NewAmbientReporter(samples, 1, messages)

	if got := r.Report().Text; got != "LX Reading: not yet sampled" {
		t.Errorf("before sampling: got %q", got)
	}

	v := store.NewSampleVector(2)
	v.Extend(3, 17)
	samples.Publish(v)

	tick := make(chan time.Time)
	go r.Run(ctx, tick)
	tick <- time.Now()

	msg, err := messages.Recv(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if msg.Source != "ambient" || msg.Text != "LX Reading: 17" {
		t.Errorf("got %+v", msg)
	}
}
