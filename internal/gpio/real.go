//go:build linux && !tinygo

package gpio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// Chip owns the lines requested from one Linux GPIO character device.
type Chip struct {
	chip *gpiocdev.Chip

	mu      sync.Mutex
	inputs  []*gpiocdev.Line
	outputs []*gpiocdev.Line
}

// OpenChip opens a GPIO chip such as "gpiochip0".
func OpenChip(name string) (*Chip, error) {
	chip, err := gpiocdev.NewChip(name)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	return &Chip{chip: chip}, nil
}

// RealInput is an input line with kernel edge detection on both edges.
type RealInput struct {
	notifier
	line *gpiocdev.Line
}

// Input requests offset as an input with pull-down and both-edge events.
// A non-zero debounce is applied by the kernel before events are reported.
func (c *Chip) Input(offset int, debounce time.Duration) (*RealInput, error) {
	in := &RealInput{}
	opts := []gpiocdev.LineReqOption{
		gpiocdev.AsInput,
		gpiocdev.WithPullDown,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(in.handle),
	}
	if debounce > 0 {
		opts = append(opts, gpiocdev.WithDebounce(debounce))
	}

	line, err := c.chip.RequestLine(offset, opts...)
	if err != nil {
		return nil, fmt.Errorf("request input line %d: %w", offset, err)
	}
	in.line = line

	c.mu.Lock()
	c.inputs = append(c.inputs, line)
	c.mu.Unlock()
	return in, nil
}

// handle runs on the gpiocdev event goroutine and must not block.
func (in *RealInput) handle(evt gpiocdev.LineEvent) {
	in.notify(evt.Type == gpiocdev.LineEventRisingEdge)
}

// WaitForEdge blocks until the kernel reports a matching edge.
func (in *RealInput) WaitForEdge(ctx context.Context, edge Edge) error {
	return in.wait(ctx, edge)
}

// WaitForEdgeSince is WaitForEdge that also returns for edges after mark.
func (in *RealInput) WaitForEdgeSince(ctx context.Context, edge Edge, mark Mark) error {
	return in.waitSince(ctx, edge, &mark)
}

// Level reads the line.
func (in *RealInput) Level() (bool, error) {
	v, err := in.line.Value()
	if err != nil {
		return false, fmt.Errorf("read line: %w", err)
	}
	return v == 1, nil
}

// RealOutput is an output line.
type RealOutput struct {
	mu    sync.Mutex
	line  *gpiocdev.Line
	level bool
}

// Output requests offset as an output driven to initial.
func (c *Chip) Output(offset int, initial bool) (*RealOutput, error) {
	line, err := c.chip.RequestLine(offset, gpiocdev.AsOutput(boolToValue(initial)))
	if err != nil {
		return nil, fmt.Errorf("request output line %d: %w", offset, err)
	}

	c.mu.Lock()
	c.outputs = append(c.outputs, line)
	c.mu.Unlock()
	return &RealOutput{line: line, level: initial}, nil
}

func (o *RealOutput) SetHigh() error { return o.set(func(bool) bool { return true }) }
func (o *RealOutput) SetLow() error  { return o.set(func(bool) bool { return false }) }
func (o *RealOutput) Toggle() error  { return o.set(func(l bool) bool { return !l }) }

func (o *RealOutput) set(next func(bool) bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	level := next(o.level)
	if err := o.line.SetValue(boolToValue(level)); err != nil {
		return fmt.Errorf("set line: %w", err)
	}
	o.level = level
	return nil
}

// Level returns the last level written.
func (o *RealOutput) Level() (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.level, nil
}

// Close releases all lines and the chip.
// Lines are reconfigured to input with pull-down (matching Pi boot defaults)
// before closing so outputs are not left driven.
func (c *Chip) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, l := range append(c.outputs, c.inputs...) {
		if err := l.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure line: %w", err))
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line: %w", err))
		}
	}
	c.inputs, c.outputs = nil, nil

	if err := c.chip.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close chip: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func boolToValue(b bool) int {
	if b {
		return 1
	}
	return 0
}
