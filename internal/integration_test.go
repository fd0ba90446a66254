package internal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sweeney/boopbox/internal/board"
	"github.com/sweeney/boopbox/internal/config"
	"github.com/sweeney/boopbox/internal/mqtt"
	"github.com/sweeney/boopbox/internal/status"
	"github.com/sweeney/boopbox/internal/task"
	"github.com/sweeney/boopbox/internal/web"
)

type rig struct {
	cfg     config.Config
	sim     *board.Sim
	pub     *mqtt.FakePublisher
	tracker *status.Tracker
	sched   *task.Scheduler
	http    *httptest.Server
}

func newRig(t *testing.T, prepare func(*rig)) (*rig, context.Context) {
	t.Helper()
	cfg := config.Default()
	cfg.SamplePeriod = time.Millisecond
	cfg.AnimationPeriod = 5 * time.Millisecond
	cfg.HoldDuration = 5 * time.Millisecond
	cfg.AmbientReportPeriod = 0

	r := &rig{
		cfg:     cfg,
		sim:     board.NewSim(cfg),
		pub:     mqtt.NewFakePublisher(),
		tracker: status.NewTracker(time.Now(), status.Config{Board: "sim"}),
	}
	if prepare != nil {
		prepare(r)
	}

	sched, err := task.NewScheduler(cfg, r.sim.Board, r.tracker, mqtt.NewEmitter(r.pub))
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	r.sched = sched
	r.tracker.Observe(sched.Samples(), sched.Digital())
	r.http = httptest.NewServer(web.New(":0", r.tracker).Handler())
	t.Cleanup(r.http.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("scheduler: %v", err)
		}
	})

	if _, err := sched.Ready().Wait(ctx); err != nil {
		t.Fatalf("waiting for first sample: %v", err)
	}
	return r, ctx
}

func (r *rig) awaitStatus(t *testing.T, ctx context.Context, source, text string) {
	t.Helper()
	for {
		for _, rec := range r.pub.Statuses() {
			if rec.Message.Source == source && rec.Message.Text == text {
				return
			}
		}
		select {
		case <-ctx.Done():
			t.Fatalf("never published %s: %q (got %+v)", source, text, r.pub.Statuses())
		case <-time.After(time.Millisecond):
		}
	}
}

func (r *rig) awaitCount(t *testing.T, ctx context.Context, c status.Counter, n uint64) {
	t.Helper()
	for r.tracker.Snapshot().Counts.Get(c) < n {
		select {
		case <-ctx.Done():
			t.Fatalf("%s: got %d, want %d", c, r.tracker.Snapshot().Counts.Get(c), n)
		case <-time.After(time.Millisecond):
		}
	}
}

func (r *rig) getStatus(t *testing.T) status.StatusJSON {
	t.Helper()
	resp, err := http.Get(r.http.URL + "/index.json")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatal(err)
	}
	return sj
}

// TestIntegrationButtonToMQTT follows one button press from the input line
// through the edge monitor and aggregator to the MQTT payload and the status page.
func TestIntegrationButtonToMQTT(t *testing.T) {
	r, ctx := newRig(t, nil)

	if err := r.sim.Lines[2].AwaitWaiters(ctx, 1); err != nil {
		t.Fatal(err)
	}
	r.sim.Lines[2].Set(true)
	r.awaitStatus(t, ctx, "aggregator", "Button Board: 0 0 1 0")

	var payload mqtt.Payload
	found := false
	for _, p := range r.pub.Statuses() {
		if p.Message.Source != "aggregator" {
			continue
		}
		raw, err := mqtt.FormatPayload(p.Message, p.Timestamp)
		if err != nil {
			t.Fatal(err)
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Fatal(err)
		}
		found = true
	}
	if !found || payload.Message.Text != "Button Board: 0 0 1 0" {
		t.Errorf("payload: got %+v", payload)
	}
	if _, err := time.Parse(time.RFC3339, payload.Message.Timestamp); err != nil {
		t.Errorf("payload timestamp: %v", err)
	}

	sj := r.getStatus(t)
	if !sj.Status.Ready {
		t.Error("status page should be ready")
	}
	want := []int{0, 0, 1, 0}
	if len(sj.Status.Digital) != len(want) {
		t.Fatalf("digital: got %v", sj.Status.Digital)
	}
	for i := range want {
		if sj.Status.Digital[i] != want[i] {
			t.Errorf("digital: got %v, want %v", sj.Status.Digital, want)
			break
		}
	}
	if len(sj.Status.Samples) != r.cfg.AnalogChannels {
		t.Errorf("samples: got %d, want %d", len(sj.Status.Samples), r.cfg.AnalogChannels)
	}
	if sj.Status.Counts["edge_events"] != 1 {
		t.Errorf("edge_events: got %d", sj.Status.Counts["edge_events"])
	}
}

// TestIntegrationTriggerDrivesBothActuators checks the shared trigger line
// pulses the motor and toggles the LED, with one message from each.
func TestIntegrationTriggerDrivesBothActuators(t *testing.T) {
	r, ctx := newRig(t, func(r *rig) {
		r.sim.Analog[r.cfg.AmbientChannel].SetSamples(20)
	})

	if err := r.sim.Trigger.AwaitWaiters(ctx, 2); err != nil {
		t.Fatal(err)
	}
	r.sim.Trigger.Set(true)

	r.awaitStatus(t, ctx, "motor", "boop detected. activating motor. light level: 20")
	r.awaitStatus(t, ctx, "led", "boop detected. light level: light")

	motor := r.sim.Motor.Transitions()
	if len(motor) != 2 || !motor[0].Level || motor[1].Level {
		t.Errorf("motor transitions: got %+v, want high then low", motor)
	}
	if level, _ := r.sim.LED.Level(); !level {
		t.Error("LED should be on after one press")
	}
}

// TestIntegrationPublishFailureDoesNotCrash checks a broker outage is counted
// and the tasks keep running.
func TestIntegrationPublishFailureDoesNotCrash(t *testing.T) {
	r, ctx := newRig(t, func(r *rig) {
		r.pub.PublishError = errors.New("broker down")
	})

	for i := 0; i < 2; i++ {
		if err := r.sim.Lines[0].AwaitWaiters(ctx, 1); err != nil {
			t.Fatal(err)
		}
		r.sim.Lines[0].Set(i == 0)
		r.awaitCount(t, ctx, status.EdgeEvents, uint64(i+1))
	}

	r.awaitCount(t, ctx, status.EmitErrors, 2)
	r.awaitCount(t, ctx, status.Messages, 2)
	if n := len(r.pub.Statuses()); n != 0 {
		t.Errorf("failed publishes must not be recorded: got %d", n)
	}
}

// TestIntegrationSimulatedActivity runs the simulator's own driver and checks
// every kind of task produced output.
func TestIntegrationSimulatedActivity(t *testing.T) {
	r, ctx := newRig(t, nil)

	driveCtx, stop := context.WithCancel(ctx)
	defer stop()
	go r.sim.Drive(driveCtx, 2*time.Millisecond)

	sources := map[string]bool{}
	for len(sources) < 3 {
		for _, rec := range r.pub.Statuses() {
			sources[rec.Message.Source] = true
		}
		select {
		case <-ctx.Done():
			t.Fatalf("sources seen: %v", sources)
		case <-time.After(time.Millisecond):
		}
	}
	for _, want := range []string{"aggregator", "motor", "led"} {
		if !sources[want] {
			t.Errorf("no message from %s", want)
		}
	}
	if len(r.sim.Strip.Frames()) == 0 {
		t.Error("no frames written to the strip")
	}
}
