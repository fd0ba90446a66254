package task

import (
	"context"
	"log"
	"time"

	"github.com/sweeney/boopbox/internal/gpio"
	"github.com/sweeney/boopbox/internal/logic"
	"github.com/sweeney/boopbox/internal/queue"
	"github.com/sweeney/boopbox/internal/status"
	"github.com/sweeney/boopbox/internal/store"
)

// Mode selects what an Actuator does with its output.
type Mode int

const (
	// ModePulse drives the output high for the hold duration, then low.
	ModePulse Mode = iota
	// ModeToggle inverts the output.
	ModeToggle
)

func (m Mode) String() string {
	switch m {
	case ModePulse:
		return "pulse"
	case ModeToggle:
		return "toggle"
	default:
		return "unknown"
	}
}

// ActuatorConfig holds the settings of one actuator.
type ActuatorConfig struct {
	Name           string
	Mode           Mode
	Hold           time.Duration // ModePulse only
	AmbientChannel int
	DarkThreshold  uint16 // ModeToggle only
	Retry          time.Duration
}

// Actuator waits for rising edges on a trigger line and drives one output.
// Several actuators may share a trigger; each sees every edge.
type Actuator struct {
	cfg      ActuatorConfig
	trigger  gpio.Input
	out      gpio.Output
	samples  *store.SampleStore
	messages *queue.Queue[logic.StatusMessage]
	rec      Recorder

	after func(time.Duration) <-chan time.Time
}

// NewActuator creates an actuator.
func NewActuator(cfg ActuatorConfig, trigger gpio.Input, out gpio.Output, samples *store.SampleStore, messages *queue.Queue[logic.StatusMessage], rec Recorder) *Actuator {
	return &Actuator{
		cfg:      cfg,
		trigger:  trigger,
		out:      out,
		samples:  samples,
		messages: messages,
		rec:      orNop(rec),
		after:    time.After,
	}
}

// Run handles rising edges until ctx is done.
func (a *Actuator) Run(ctx context.Context) error {
	for {
		if err := a.trigger.WaitForEdge(ctx, gpio.EdgeRising); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			a.rec.Inc(status.EdgeErrors)
			log.Printf("%s: wait for trigger: %v", a.cfg.Name, err)
			if !pause(ctx, a.after, a.cfg.Retry) {
				return nil
			}
			continue
		}

		msg, ok := a.Actuate(ctx)
		if !ok {
			continue
		}
		if err := a.messages.Send(ctx, msg); err != nil {
			return nil
		}
	}
}

// Actuate performs one action and returns its report. ok is false when the
// output could not be driven and nothing happened.
func (a *Actuator) Actuate(ctx context.Context) (msg logic.StatusMessage, ok bool) {
	switch a.cfg.Mode {
	case ModeToggle:
		if err := a.out.Toggle(); err != nil {
			a.outputError("toggle", err)
			return msg, false
		}
	default:
		if err := a.out.SetHigh(); err != nil {
			a.outputError("set high", err)
			return msg, false
		}
		// The output goes low even if ctx ends during the hold.
		select {
		case <-a.after(a.cfg.Hold):
		case <-ctx.Done():
		}
		if err := a.out.SetLow(); err != nil {
			a.outputError("set low", err)
		}
	}
	a.rec.Inc(status.Actuations)

	ambient, sampled := a.samples.At(a.cfg.AmbientChannel)
	var text string
	if a.cfg.Mode == ModeToggle {
		text = logic.ToggleReport(ambient, sampled, a.cfg.DarkThreshold)
	} else {
		text = logic.MotorReport(ambient, sampled)
	}
	return logic.NewStatusMessage(a.cfg.Name, text), true
}

func (a *Actuator) outputError(op string, err error) {
	a.rec.Inc(status.OutputErrors)
	log.Printf("%s: %s: %v", a.cfg.Name, op, err)
}
