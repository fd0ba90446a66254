package task

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sweeney/boopbox/internal/gpio"
	"github.com/sweeney/boopbox/internal/logic"
	"github.com/sweeney/boopbox/internal/queue"
	"github.com/sweeney/boopbox/internal/status"
	"github.com/sweeney/boopbox/internal/store"
)

// EdgeMonitor watches one digital line. On every accepted edge it records the
// level in its own index of the digital store and then enqueues an event.
type EdgeMonitor struct {
	line     int
	in       gpio.Input
	digital  *store.DigitalStore
	events   *queue.Queue[logic.Event]
	payload  bool
	debounce *logic.Debouncer
	retry    time.Duration
	rec      Recorder

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

// MonitorConfig holds the per-image monitor settings.
type MonitorConfig struct {
	LinePayload bool          // send LineChange events instead of pulses
	Debounce    time.Duration // 0 disables
	Retry       time.Duration // pause after a failed edge wait
}

// NewEdgeMonitor creates the monitor for line.
func NewEdgeMonitor(line int, in gpio.Input, digital *store.DigitalStore, events *queue.Queue[logic.Event], cfg MonitorConfig, rec Recorder) *EdgeMonitor {
	return &EdgeMonitor{
		line:     line,
		in:       in,
		digital:  digital,
		events:   events,
		payload:  cfg.LinePayload,
		debounce: logic.NewDebouncer(cfg.Debounce),
		retry:    cfg.Retry,
		rec:      orNop(rec),
		now:      time.Now,
		after:    time.After,
	}
}

// Run handles edges until ctx is done or the store rejects the line index.
// The edge mark is taken before each read of the line, so edges that arrive
// while the monitor is reading or suspended on a full queue wake the next
// wait at once and the store catches up with the line.
func (m *EdgeMonitor) Run(ctx context.Context) error {
	mark := m.in.Mark()
	for {
		if err := m.wait(ctx, mark); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			m.rec.Inc(status.EdgeErrors)
			log.Printf("monitor %d: wait for edge: %v", m.line, err)
			if !pause(ctx, m.after, m.retry) {
				return nil
			}
			continue
		}

		mark = m.in.Mark()
		if err := m.handle(ctx); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// wait blocks for the next edge after mark. While a debounced change is
// pending it gives up at the end of the window so the line is re-read.
func (m *EdgeMonitor) wait(ctx context.Context, mark gpio.Mark) error {
	d, pending := m.debounce.Pending(m.now())
	if !pending {
		return m.in.WaitForEdgeSince(ctx, gpio.EdgeBoth, mark)
	}

	wctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	err := m.in.WaitForEdgeSince(wctx, gpio.EdgeBoth, mark)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return nil
	}
	return err
}

// handle reads the line after an edge. Only a fatal store error is returned.
func (m *EdgeMonitor) handle(ctx context.Context) error {
	level, err := m.in.Level()
	if err != nil {
		m.rec.Inc(status.EdgeErrors)
		log.Printf("monitor %d: read level: %v", m.line, err)
		return nil
	}
	if !m.debounce.Accept(level, m.now()) {
		return nil
	}

	if err := m.digital.Set(m.line, level); err != nil {
		return err
	}
	m.rec.Inc(status.EdgeEvents)

	ev := logic.Pulse()
	if m.payload {
		ev = logic.LineChange(m.line, level)
	}
	// Send only fails once ctx is done, which Run checks next.
	_ = m.events.Send(ctx, ev)
	return nil
}
