// Package board performs hardware bring-up and hands ready peripheral handles
// to the scheduler.
package board

import (
	"fmt"

	"github.com/sweeney/boopbox/internal/adc"
	"github.com/sweeney/boopbox/internal/config"
	"github.com/sweeney/boopbox/internal/fault"
	"github.com/sweeney/boopbox/internal/gpio"
	"github.com/sweeney/boopbox/internal/strip"
)

// Board is the set of peripherals the tasks run against.
type Board struct {
	Name    string
	Analog  []adc.Channel // index = channel
	Lines   []gpio.Input  // monitored digital lines, index = line
	Trigger gpio.Input    // shared by the actuators
	Motor   gpio.Output
	LED     gpio.Output
	Strip   strip.Transport

	closers []func() error
}

// OnClose registers fn to run on Close, in reverse registration order.
func (b *Board) OnClose(fn func() error) {
	b.closers = append(b.closers, fn)
}

// Close releases the peripherals.
func (b *Board) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// Check verifies that the board matches cfg. A mismatch is fatal.
func (b *Board) Check(cfg config.Config) error {
	var problem string
	switch {
	case len(b.Analog) != cfg.AnalogChannels:
		problem = fmt.Sprintf("board has %d analog channels, config wants %d", len(b.Analog), cfg.AnalogChannels)
	case len(b.Lines) != cfg.DigitalLines:
		problem = fmt.Sprintf("board has %d digital lines, config wants %d", len(b.Lines), cfg.DigitalLines)
	case b.Trigger == nil:
		problem = "no trigger line"
	case b.Motor == nil || b.LED == nil:
		problem = "missing actuator output"
	case b.Strip == nil:
		problem = "no strip transport"
	default:
		for i, ch := range b.Analog {
			if ch == nil {
				problem = fmt.Sprintf("analog channel %d is nil", i)
				break
			}
		}
		for i, in := range b.Lines {
			if in == nil {
				problem = fmt.Sprintf("digital line %d is nil", i)
				break
			}
		}
		if problem == "" {
			return nil
		}
	}
	return fault.Fatal("check board", fmt.Errorf("%s %s: %w", b.Name, problem, fault.ErrConfig))
}
