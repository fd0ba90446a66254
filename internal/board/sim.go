package board

import (
	"context"
	"time"

	"github.com/sweeney/boopbox/internal/adc"
	"github.com/sweeney/boopbox/internal/config"
	"github.com/sweeney/boopbox/internal/gpio"
	"github.com/sweeney/boopbox/internal/strip"
)

// simFrameHistory is how many strip frames a Sim keeps.
const simFrameHistory = 64

// Sim is a board of fakes. Drive generates button activity and a slowly
// changing ambient level so the image can run without hardware.
type Sim struct {
	Board *Board

	Analog  []*adc.FakeChannel
	Lines   []*gpio.FakeInput
	Trigger *gpio.FakeInput
	Motor   *gpio.FakeOutput
	LED     *gpio.FakeOutput
	Strip   *strip.FakeTransport

	ambientChannel int
	step           int
}

// NewSim creates a simulated board sized for cfg.
func NewSim(cfg config.Config) *Sim {
	s := &Sim{
		Trigger:        gpio.NewFakeInput(false),
		Motor:          gpio.NewFakeOutput(false),
		LED:            gpio.NewFakeOutput(false),
		Strip:          strip.NewBoundedFakeTransport(simFrameHistory),
		ambientChannel: cfg.AmbientChannel,
	}
	b := &Board{
		Name:    "sim",
		Trigger: s.Trigger,
		Motor:   s.Motor,
		LED:     s.LED,
		Strip:   s.Strip,
	}
	for i := 0; i < cfg.AnalogChannels; i++ {
		ch := adc.NewFakeChannel(uint16(16 * i))
		s.Analog = append(s.Analog, ch)
		b.Analog = append(b.Analog, ch)
	}
	for i := 0; i < cfg.DigitalLines; i++ {
		in := gpio.NewFakeInput(false)
		s.Lines = append(s.Lines, in)
		b.Lines = append(b.Lines, in)
	}
	s.Board = b
	return s
}

// Step advances the simulation by one beat: one monitored line changes, the
// ambient level moves, and every fourth beat the trigger is pressed and
// released.
func (s *Sim) Step() {
	s.step++
	if n := len(s.Lines); n > 0 {
		in := s.Lines[s.step%n]
		level, _ := in.Level()
		in.Set(!level)
	}
	if s.ambientChannel < len(s.Analog) {
		s.Analog[s.ambientChannel].SetSamples(uint16((s.step * 3) % 32))
	}
	if s.step%4 == 0 {
		s.Trigger.Set(true)
		s.Trigger.Set(false)
	}
}

// Drive calls Step every period until ctx is done.
func (s *Sim) Drive(ctx context.Context, period time.Duration) {
	t := time.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Step()
		}
	}
}
