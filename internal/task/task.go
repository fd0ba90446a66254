// Package task implements the concurrently running duties of the image and
// the scheduler that spawns them.
//
// Every task is a Run(ctx) loop whose only suspension points are tick and
// timer receives, edge waits, queue sends and receives, and short store
// locks. Recoverable errors are logged and counted inside the task; a task
// returns an error only when it is fatal, which stops the scheduler.
package task

import (
	"context"
	"time"

	"github.com/sweeney/boopbox/internal/logic"
	"github.com/sweeney/boopbox/internal/status"
)

// Recorder receives task counters. *status.Tracker implements it.
type Recorder interface {
	Inc(c status.Counter)
	SetReady()
	Message(msg logic.StatusMessage)
}

type nopRecorder struct{}

func (nopRecorder) Inc(status.Counter)          {}
func (nopRecorder) SetReady()                   {}
func (nopRecorder) Message(logic.StatusMessage) {}

func orNop(rec Recorder) Recorder {
	if rec == nil {
		return nopRecorder{}
	}
	return rec
}

// pause waits for d or until ctx is done. It reports whether ctx is still live.
func pause(ctx context.Context, after func(time.Duration) <-chan time.Time, d time.Duration) bool {
	select {
	case <-after(d):
		return true
	case <-ctx.Done():
		return false
	}
}
