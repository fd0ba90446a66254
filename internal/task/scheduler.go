package task

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sweeney/boopbox/internal/board"
	"github.com/sweeney/boopbox/internal/config"
	"github.com/sweeney/boopbox/internal/logic"
	"github.com/sweeney/boopbox/internal/queue"
	"github.com/sweeney/boopbox/internal/store"
)

// Scheduler owns the shared stores and queues and runs every task against
// one board.
type Scheduler struct {
	cfg      config.Config
	board    *board.Board
	rec      Recorder
	emitters []Emitter

	samples  *store.SampleStore
	digital  *store.DigitalStore
	events   *queue.Queue[logic.Event]
	messages *queue.Queue[logic.StatusMessage]
	ready    *queue.Signal[uint64]

	newTicker func(time.Duration) (<-chan time.Time, func())
}

// NewScheduler validates cfg against b and allocates the shared state. With
// no emitters, messages go to the standard logger.
func NewScheduler(cfg config.Config, b *board.Board, rec Recorder, emitters ...Emitter) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := b.Check(cfg); err != nil {
		return nil, err
	}
	if len(emitters) == 0 {
		emitters = []Emitter{LogEmitter{}}
	}

	return &Scheduler{
		cfg:      cfg,
		board:    b,
		rec:      orNop(rec),
		emitters: emitters,

		samples:  store.NewSampleStore(cfg.AnalogChannels),
		digital:  store.NewDigitalStore(cfg.DigitalLines),
		events:   queue.New[logic.Event](cfg.EventQueueCapacity),
		messages: queue.New[logic.StatusMessage](cfg.MessageQueueCapacity),
		ready:    queue.NewSignal[uint64](),

		newTicker: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}, nil
}

// Samples returns the analog sample store.
func (s *Scheduler) Samples() *store.SampleStore { return s.samples }

// Digital returns the digital line store.
func (s *Scheduler) Digital() *store.DigitalStore { return s.digital }

// Ready is raised after every sampler publish.
func (s *Scheduler) Ready() *queue.Signal[uint64] { return s.ready }

// Run spawns every task and blocks until ctx is done or a task fails
// fatally. The first fatal error cancels the other tasks and is returned.
func (s *Scheduler) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	cfg := s.cfg

	sampleTick, stopSample := s.newTicker(cfg.SamplePeriod)
	defer stopSample()
	sampler := NewSampler(s.board.Analog, s.samples, s.ready, s.rec)
	g.Go(func() error { return sampler.Run(ctx, sampleTick) })

	monCfg := MonitorConfig{LinePayload: cfg.LinePayload, Debounce: cfg.Debounce, Retry: cfg.EdgeRetry}
	for i, in := range s.board.Lines {
		m := NewEdgeMonitor(i, in, s.digital, s.events, monCfg, s.rec)
		g.Go(func() error { return m.Run(ctx) })
	}

	agg := NewAggregator(s.events, s.digital, s.messages)
	g.Go(func() error { return agg.Run(ctx) })

	motor := NewActuator(ActuatorConfig{
		Name:           "motor",
		Mode:           ModePulse,
		Hold:           cfg.HoldDuration,
		AmbientChannel: cfg.AmbientChannel,
		Retry:          cfg.EdgeRetry,
	}, s.board.Trigger, s.board.Motor, s.samples, s.messages, s.rec)
	g.Go(func() error { return motor.Run(ctx) })

	led := NewActuator(ActuatorConfig{
		Name:           "led",
		Mode:           ModeToggle,
		AmbientChannel: cfg.AmbientChannel,
		DarkThreshold:  cfg.DarkThreshold,
		Retry:          cfg.EdgeRetry,
	}, s.board.Trigger, s.board.LED, s.samples, s.messages, s.rec)
	g.Go(func() error { return led.Run(ctx) })

	frameTick, stopFrame := s.newTicker(cfg.AnimationPeriod)
	defer stopFrame()
	anim := NewAnimator(s.board.Strip, logic.Chase{
		Length:  cfg.StripLength,
		Spacing: cfg.StripSpacing,
		On:      cfg.OnColor,
	}, s.rec)
	g.Go(func() error { return anim.Run(ctx, frameTick) })

	if cfg.AmbientReportPeriod > 0 {
		ambientTick, stopAmbient := s.newTicker(cfg.AmbientReportPeriod)
		defer stopAmbient()
		amb := NewAmbientReporter(s.samples, cfg.AmbientChannel, s.messages)
		g.Go(func() error { return amb.Run(ctx, ambientTick) })
	}

	sink := NewSink(s.messages, s.rec, s.emitters...)
	g.Go(func() error { return sink.Run(ctx) })

	log.Printf("scheduler: running %d monitors, sample=%v frame=%v on %s board",
		len(s.board.Lines), cfg.SamplePeriod, cfg.AnimationPeriod, s.board.Name)

	if err := g.Wait(); err != nil {
		log.Printf("scheduler: stopped: %v", err)
		return err
	}
	return nil
}
