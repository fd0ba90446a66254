//go:build tinygo

// Command boopbox-mcu is the microcontroller image: the same tasks as
// boopbox, wired to on-chip peripherals, with status messages on the serial
// console.
package main

import (
	"context"
	"log"
	"time"

	"github.com/sweeney/boopbox/internal/board"
	"github.com/sweeney/boopbox/internal/config"
	"github.com/sweeney/boopbox/internal/status"
	"github.com/sweeney/boopbox/internal/task"
)

func main() {
	cfg := config.Default()
	cfg.AnalogChannels = board.MCUChannels

	b, err := board.OpenMCU(cfg.StripLength)
	if err != nil {
		halt("init board", err)
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		SampleMs:    cfg.SamplePeriod.Milliseconds(),
		AnimationMs: cfg.AnimationPeriod.Milliseconds(),
		HoldMs:      cfg.HoldDuration.Milliseconds(),
		Board:       b.Name,
	})
	sched, err := task.NewScheduler(cfg, b, tracker, task.LogEmitter{})
	if err != nil {
		halt("init scheduler", err)
	}
	tracker.Observe(sched.Samples(), sched.Digital())

	if err := sched.Run(context.Background()); err != nil {
		halt("run", err)
	}
}

// halt reports err on the console forever. There is nothing to return to.
func halt(op string, err error) {
	for {
		log.Printf("fatal: %s: %v", op, err)
		time.Sleep(5 * time.Second)
	}
}
