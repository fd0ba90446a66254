//go:build tinygo

package gpio

import (
	"context"
	"machine"
	"sync/atomic"
)

// PinInput is a machine pin with a toggle interrupt. The interrupt handler
// only does a non-blocking send; a goroutine fans the edge out to waiters.
type PinInput struct {
	notifier
	pin   machine.Pin
	isrQ  chan bool
	drops uint32
}

// NewPinInput configures pin as a pulled-down input with both-edge interrupts.
func NewPinInput(pin machine.Pin, queueLen int) (*PinInput, error) {
	if queueLen <= 0 {
		queueLen = 8
	}
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	in := &PinInput{pin: pin, isrQ: make(chan bool, queueLen)}

	err := pin.SetInterrupt(machine.PinToggle, func(p machine.Pin) {
		select {
		case in.isrQ <- p.Get():
		default:
			atomic.AddUint32(&in.drops, 1)
		}
	})
	if err != nil {
		return nil, err
	}
	go in.pump()
	return in, nil
}

func (in *PinInput) pump() {
	for level := range in.isrQ {
		in.notify(level)
	}
}

// WaitForEdge blocks until the interrupt reports a matching edge.
func (in *PinInput) WaitForEdge(ctx context.Context, edge Edge) error {
	return in.wait(ctx, edge)
}

// WaitForEdgeSince is WaitForEdge that also returns for edges after mark.
func (in *PinInput) WaitForEdgeSince(ctx context.Context, edge Edge, mark Mark) error {
	return in.waitSince(ctx, edge, &mark)
}

// Level reads the pin.
func (in *PinInput) Level() (bool, error) { return in.pin.Get(), nil }

// ISRDrops returns how many interrupts found the queue full.
func (in *PinInput) ISRDrops() uint32 { return atomic.LoadUint32(&in.drops) }

// PinOutput is a machine pin configured as an output.
type PinOutput struct {
	pin machine.Pin
}

// NewPinOutput configures pin as an output driven to initial.
func NewPinOutput(pin machine.Pin, initial bool) *PinOutput {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Set(initial)
	return &PinOutput{pin: pin}
}

func (o *PinOutput) SetHigh() error { o.pin.High(); return nil }
func (o *PinOutput) SetLow() error  { o.pin.Low(); return nil }
func (o *PinOutput) Toggle() error  { o.pin.Set(!o.pin.Get()); return nil }

func (o *PinOutput) Level() (bool, error) { return o.pin.Get(), nil }
