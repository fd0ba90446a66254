// Package gpio provides digital input and output lines with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The TinyGo implementation uses machine pins and their interrupts.
// The fake implementation allows testing without hardware.
package gpio

import (
	"context"
	"fmt"
)

// Edge selects which transitions WaitForEdge returns on.
type Edge uint8

const (
	EdgeRising Edge = iota + 1
	EdgeFalling
	EdgeBoth
)

func (e Edge) String() string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return fmt.Sprintf("edge(%d)", uint8(e))
	}
}

// matches reports whether a transition to the given level satisfies e.
func (e Edge) matches(rising bool) bool {
	switch e {
	case EdgeBoth:
		return true
	case EdgeRising:
		return rising
	case EdgeFalling:
		return !rising
	default:
		return false
	}
}

// Mark counts the edges a line has reported.
type Mark struct {
	Rising, Falling uint64
}

// after reports whether m has seen an edge of kind e that since had not.
func (m Mark) after(since Mark, e Edge) bool {
	rose := m.Rising != since.Rising
	fell := m.Falling != since.Falling
	switch e {
	case EdgeBoth:
		return rose || fell
	case EdgeRising:
		return rose
	case EdgeFalling:
		return fell
	default:
		return false
	}
}

// Input is a digital input line with edge detection.
type Input interface {
	// WaitForEdge blocks until the next transition of the given kind.
	// Every goroutine waiting on the line observes every matching edge that
	// happens while it waits.
	WaitForEdge(ctx context.Context, edge Edge) error

	// Mark returns the line's edge count so far.
	Mark() Mark

	// WaitForEdgeSince is WaitForEdge, except that it returns at once when a
	// matching edge was reported after mark was taken. A caller that takes a
	// Mark before reading the line cannot miss an edge while it is busy.
	WaitForEdgeSince(ctx context.Context, edge Edge, mark Mark) error

	// Level returns the current level of the line.
	Level() (bool, error)
}

// Output is a digital output line.
type Output interface {
	SetHigh() error
	SetLow() error
	Toggle() error
	Level() (bool, error)
}
