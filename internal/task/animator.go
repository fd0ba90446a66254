package task

import (
	"context"
	"log"
	"time"

	"github.com/sweeney/boopbox/internal/logic"
	"github.com/sweeney/boopbox/internal/status"
	"github.com/sweeney/boopbox/internal/strip"
)

// Animator writes the chase animation to the strip, one frame per tick.
type Animator struct {
	out   strip.Transport
	chase logic.Chase
	sweep *logic.Sweep
	frame []logic.Color
	rec   Recorder
}

// NewAnimator creates an animator for chase.
func NewAnimator(out strip.Transport, chase logic.Chase, rec Recorder) *Animator {
	return &Animator{
		out:   out,
		chase: chase,
		sweep: logic.NewSweep(chase.Spacing),
		frame: make([]logic.Color, chase.Length),
		rec:   orNop(rec),
	}
}

// Step builds and writes the next frame. A failed write is retried once; if
// the retry fails too the frame is dropped. It reports whether the frame was
// written.
func (a *Animator) Step() bool {
	k := a.sweep.Next()
	a.chase.FrameInto(a.frame, k)

	err := a.out.WriteFrame(a.frame)
	if err != nil {
		a.rec.Inc(status.FramesRetried)
		err = a.out.WriteFrame(a.frame)
	}
	if err != nil {
		a.rec.Inc(status.FramesDropped)
		log.Printf("animator: dropped frame %d: %v", k, err)
		return false
	}
	a.rec.Inc(status.FramesWritten)
	return true
}

// Run writes a frame, then waits for the next tick, until ctx is done.
func (a *Animator) Run(ctx context.Context, tick <-chan time.Time) error {
	for {
		a.Step()
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
		}
	}
}
