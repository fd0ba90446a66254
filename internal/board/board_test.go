package board

import (
	"errors"
	"testing"

	"github.com/sweeney/boopbox/internal/config"
	"github.com/sweeney/boopbox/internal/fault"
	"github.com/sweeney/boopbox/internal/gpio"
)

func TestSimMatchesConfig(t *testing.T) {
	cfg := config.Default()
	sim := NewSim(cfg)

	if err := sim.Board.Check(cfg); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(sim.Analog) != cfg.AnalogChannels || len(sim.Lines) != cfg.DigitalLines {
		t.Errorf("sim sized %d/%d, want %d/%d", len(sim.Analog), len(sim.Lines), cfg.AnalogChannels, cfg.DigitalLines)
	}
}

func TestCheckRejectsMismatch(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		name   string
		mutate func(*Board)
	}{
		{"too few analog", func(b *Board) { b.Analog = b.Analog[:1] }},
		{"too many lines", func(b *Board) { b.Lines = append(b.Lines, gpio.NewFakeInput(false)) }},
		{"nil line", func(b *Board) { b.Lines[2] = nil }},
		{"no trigger", func(b *Board) { b.Trigger = nil }},
		{"no motor", func(b *Board) { b.Motor = nil }},
		{"no strip", func(b *Board) { b.Strip = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewSim(cfg).Board
			tt.mutate(b)
			err := b.Check(cfg)
			if !errors.Is(err, fault.ErrConfig) || !fault.IsFatal(err) {
				t.Errorf("expected fatal config error, got %v", err)
			}
		})
	}
}

func TestSimStep(t *testing.T) {
	cfg := config.Default()
	sim := NewSim(cfg)

	for i := 0; i < 4; i++ {
		sim.Step()
	}

	high := 0
	for _, in := range sim.Lines {
		if level, _ := in.Level(); level {
			high++
		}
	}
	if high != 4 {
		t.Errorf("after 4 steps with 4 lines every line toggled once: got %d high", high)
	}
	if v, _ := sim.Analog[cfg.AmbientChannel].Read(); v != 12 {
		t.Errorf("ambient after 4 steps: got %d, want 12", v)
	}
	if level, _ := sim.Trigger.Level(); level {
		t.Error("trigger should be released after a press")
	}
}

func TestCloseRunsInReverse(t *testing.T) {
	b := &Board{}
	var order []int
	b.OnClose(func() error { order = append(order, 1); return nil })
	b.OnClose(func() error { order = append(order, 2); return errors.New("busy") })

	if err := b.Close(); err == nil {
		t.Error("expected close error")
	}
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("close order: got %v, want [2 1]", order)
	}
	if err := b.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestSimStripHistoryIsBounded(t *testing.T) {
	sim := NewSim(config.Default())
	for i := 0; i < 3*simFrameHistory; i++ {
		if err := sim.Strip.WriteFrame(nil); err != nil {
			t.Fatal(err)
		}
	}
	if n := len(sim.Strip.Frames()); n != simFrameHistory {
		t.Errorf("retained frames: got %d, want %d", n, simFrameHistory)
	}
	if sim.Strip.Writes() != 3*simFrameHistory {
		t.Errorf("Writes: got %d", sim.Strip.Writes())
	}
}
