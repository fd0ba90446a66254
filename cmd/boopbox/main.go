// Command boopbox runs the button board, motor, LED and light strip tasks on
// a Linux host and reports status messages to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/sweeney/boopbox/internal/board"
	"github.com/sweeney/boopbox/internal/config"
	"github.com/sweeney/boopbox/internal/logic"
	"github.com/sweeney/boopbox/internal/mqtt"
	"github.com/sweeney/boopbox/internal/status"
	"github.com/sweeney/boopbox/internal/task"
	"github.com/sweeney/boopbox/internal/web"
)

type options struct {
	cfg    config.Config
	wiring board.Wiring

	sim       bool
	simStep   time.Duration
	broker    string
	heartbeat time.Duration
	httpAddr  string
	print     bool
}

func main() {
	// Tasks interleave only at blocking points, as on the single-core target.
	runtime.GOMAXPROCS(1)

	cfg := config.Default()
	chip := flag.String("chip", "gpiochip0", "GPIO character device")
	lines := flag.String("lines", "17,27,22,23", "Comma-separated GPIO offsets of the monitored button lines")
	trigger := flag.Int("trigger", 24, "GPIO offset of the trigger button")
	motor := flag.Int("motor", 5, "GPIO offset of the motor driver")
	led := flag.Int("led", 6, "GPIO offset of the indicator LED")
	iio := flag.String("iio", "/sys/bus/iio/devices/iio:device0", "IIO device directory of the ADC")
	adcBits := flag.Uint("adc-bits", 12, "ADC resolution in bits")
	spiPort := flag.String("spi", "", "SPI port driving the LED strip (empty selects the first)")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address (empty to disable)")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")
	sim := flag.Bool("sim", false, "Run against a simulated board")
	simStep := flag.Duration("sim-step", 500*time.Millisecond, "Simulated button activity interval")
	printState := flag.Bool("print-state", false, "Print current inputs and exit")

	flag.Parse()

	offsets, err := parseOffsets(*lines)
	if err != nil {
		log.Fatalf("fatal: -lines: %v", err)
	}
	cfg.DigitalLines = len(offsets)

	o := options{
		cfg: cfg,
		wiring: board.Wiring{
			Chip:        *chip,
			Lines:       offsets,
			Trigger:     *trigger,
			Motor:       *motor,
			LED:         *led,
			Debounce:    cfg.Debounce,
			IIODevice:   *iio,
			ADCBits:     *adcBits,
			Channels:    cfg.AnalogChannels,
			SPIPort:     *spiPort,
			StripLength: cfg.StripLength,
		},
		sim:       *sim,
		simStep:   *simStep,
		broker:    *broker,
		heartbeat: *heartbeat,
		httpAddr:  *httpAddr,
		print:     *printState,
	}
	if err := run(o); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(o options) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b, err := openBoard(ctx, o)
	if err != nil {
		return fmt.Errorf("init board: %w", err)
	}
	defer b.Close()

	if o.print {
		return printState(os.Stdout, b)
	}

	publisher, err := openPublisher(o.broker)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		SampleMs:    o.cfg.SamplePeriod.Milliseconds(),
		AnimationMs: o.cfg.AnimationPeriod.Milliseconds(),
		HoldMs:      o.cfg.HoldDuration.Milliseconds(),
		HeartbeatMs: o.heartbeat.Milliseconds(),
		Board:       b.Name,
		Broker:      o.broker,
		HTTPAddr:    o.httpAddr,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	sched, err := task.NewScheduler(o.cfg, b, tracker, task.LogEmitter{}, mqtt.NewEmitter(publisher))
	if err != nil {
		return err
	}
	tracker.Observe(sched.Samples(), sched.Digital())

	if o.httpAddr != "" {
		srv := web.New(o.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", o.httpAddr)
	}

	log.Printf("started: board=%s channels=%d lines=%d broker=%q heartbeat=%v",
		b.Name, o.cfg.AnalogChannels, o.cfg.DigitalLines, o.broker, o.heartbeat)

	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	var heartbeat <-chan time.Time
	if o.heartbeat > 0 {
		t := time.NewTicker(o.heartbeat)
		defer t.Stop()
		heartbeat = t.C
	}
	refresh := time.NewTicker(time.Second)
	defer refresh.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	l := &loop{
		publisher:      publisher,
		conn:           publisher,
		tracker:        tracker,
		now:            time.Now,
		ready:          sched.Ready().Done(),
		startupTimeout: time.After(startupTimeout(o.cfg)),
		heartbeat:      heartbeat,
		refresh:        refresh.C,
		sig:            sigCh,
		done:           done,
	}
	return supervise(l, cancel, shutdownGrace)
}

// shutdownGrace bounds how long shutdown waits for the tasks to return.
const shutdownGrace = 2 * time.Second

// supervise runs l until shutdown, then cancels the tasks and waits for them
// to return so no task drives the board after it is closed.
func supervise(l *loop, cancel context.CancelFunc, grace time.Duration) error {
	err := l.run()
	cancel()
	if !l.stopped {
		select {
		case <-l.done:
		case <-time.After(grace):
			log.Printf("tasks did not stop within %v", grace)
		}
	}
	return err
}

// startupTimeout bounds how long STARTUP waits for the first sample.
func startupTimeout(cfg config.Config) time.Duration {
	return 10*cfg.SamplePeriod + 2*time.Second
}

func openBoard(ctx context.Context, o options) (*board.Board, error) {
	if o.sim {
		s := board.NewSim(o.cfg)
		go s.Drive(ctx, o.simStep)
		return s.Board, nil
	}
	return board.Open(o.wiring)
}

type connPublisher interface {
	mqtt.Publisher
	mqtt.ConnectionStatus
}

func openPublisher(broker string) (connPublisher, error) {
	if broker == "" {
		log.Printf("mqtt disabled")
		return offlinePublisher{}, nil
	}
	return mqtt.NewRealPublisher(broker, "boopbox")
}

// offlinePublisher discards everything when no broker is configured.
type offlinePublisher struct{}

func (offlinePublisher) PublishStatus(logic.StatusMessage, time.Time) error { return nil }
func (offlinePublisher) PublishSystem(mqtt.SystemEvent) error               { return nil }
func (offlinePublisher) Close() error                                       { return nil }
func (offlinePublisher) IsConnected() bool                                  { return false }

// loop publishes lifecycle events while the scheduler runs.
type loop struct {
	publisher mqtt.Publisher
	conn      mqtt.ConnectionStatus
	tracker   *status.Tracker
	now       func() time.Time

	ready          <-chan struct{}
	startupTimeout <-chan time.Time
	heartbeat      <-chan time.Time
	refresh        <-chan time.Time
	sig            <-chan os.Signal
	done           <-chan error

	stopped bool // the scheduler's result has been received
}

func (l *loop) run() error {
	started := false
	startup := func(reason string) {
		started = true
		l.ready, l.startupTimeout = nil, nil
		l.publishSystem("STARTUP", reason, true)
	}

	for {
		select {
		case s := <-l.sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			l.publishSystem("SHUTDOWN", signalName, true)
			return nil

		case err := <-l.done:
			l.stopped = true
			// A task failed fatally. Report it before exiting.
			reason := "STOPPED"
			if err != nil {
				reason = "FATAL"
			}
			l.publishSystem("SHUTDOWN", reason, true)
			return err

		case <-l.ready:
			startup("")

		case <-l.startupTimeout:
			log.Printf("no sample before startup timeout")
			startup("NOT_READY")

		case <-l.heartbeat:
			if !started {
				continue
			}
			if net := readNetworkInfo(); net != nil {
				l.tracker.SetNetwork(net)
			}
			l.publishSystem("HEARTBEAT", "", false)

		case <-l.refresh:
			l.tracker.SetMQTTConnected(l.conn.IsConnected())
		}
	}
}

func (l *loop) publishSystem(event, reason string, retained bool) {
	l.tracker.SetMQTTConnected(l.conn.IsConnected())
	snap := l.tracker.Snapshot()
	ev := mqtt.SystemEvent{
		Timestamp:  l.now(),
		Event:      event,
		Reason:     reason,
		Retained:   retained,
		RawPayload: status.FormatStatusEvent(snap, event, reason),
	}
	if err := l.publisher.PublishSystem(ev); err != nil {
		log.Printf("failed to publish %s event: %v", strings.ToLower(event), err)
		return
	}
	log.Printf("published %s event", strings.ToLower(event))
}

// printState reads every input once.
func printState(w io.Writer, b *board.Board) error {
	fmt.Fprint(w, "analog:")
	for i, ch := range b.Analog {
		v, err := ch.Read()
		if err != nil {
			return fmt.Errorf("read analog channel %d: %w", i, err)
		}
		fmt.Fprintf(w, " %d=%d", i, v)
	}
	fmt.Fprintln(w)

	levels := make([]bool, len(b.Lines))
	for i, in := range b.Lines {
		l, err := in.Level()
		if err != nil {
			return fmt.Errorf("read line %d: %w", i, err)
		}
		levels[i] = l
	}
	fmt.Fprintln(w, logic.ButtonBoard(levels))

	t, err := b.Trigger.Level()
	if err != nil {
		return fmt.Errorf("read trigger: %w", err)
	}
	fmt.Fprintf(w, "trigger: %s\n", stateString(t))
	return nil
}

func parseOffsets(s string) ([]int, error) {
	var out []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("bad offset %q: %w", f, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("bad offset %d", n)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no lines given")
	}
	return out, nil
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

func stateString(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
