// Package status provides a thread-safe status tracker for the boopbox image.
// Tasks record counters into it; the HTTP page and MQTT system events read
// snapshots from it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/boopbox/internal/logic"
	"github.com/sweeney/boopbox/internal/store"
)

// Counter names one of the task counters.
type Counter int

const (
	SampleCycles Counter = iota
	SampleErrors
	EdgeEvents
	EdgeErrors
	Actuations
	OutputErrors
	FramesWritten
	FramesRetried
	FramesDropped
	Messages
	EmitErrors
	numCounters
)

var counterNames = [numCounters]string{
	SampleCycles:  "sample_cycles",
	SampleErrors:  "sample_errors",
	EdgeEvents:    "edge_events",
	EdgeErrors:    "edge_errors",
	Actuations:    "actuations",
	OutputErrors:  "output_errors",
	FramesWritten: "frames_written",
	FramesRetried: "frames_retried",
	FramesDropped: "frames_dropped",
	Messages:      "messages",
	EmitErrors:    "emit_errors",
}

func (c Counter) String() string {
	if c < 0 || c >= numCounters {
		return "unknown"
	}
	return counterNames[c]
}

// Counters returns every Counter in display order.
func Counters() []Counter {
	out := make([]Counter, numCounters)
	for i := range out {
		out[i] = Counter(i)
	}
	return out
}

// Counts holds one value per Counter.
type Counts [numCounters]uint64

// Get returns the value of c.
func (c Counts) Get(name Counter) uint64 {
	if name < 0 || name >= numCounters {
		return 0
	}
	return c[name]
}

// NetworkInfo contains network state. This is a local copy to avoid
// importing internal/mqtt from status.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains image configuration for display.
type Config struct {
	SampleMs    int64
	AnimationMs int64
	HoldMs      int64
	HeartbeatMs int64
	Board       string
	Broker      string
	HTTPAddr    string
}

// Snapshot is a point-in-time view of the image state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Ready         bool
	Counts        Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config

	Samples     []uint16 // nil until the first sampler cycle
	Digital     []bool
	LastMessage *logic.StatusMessage
}

// Uptime returns the duration since the image started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot

	samples *store.SampleStore
	digital *store.DigitalStore
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Observe makes snapshots include the current contents of the stores.
func (t *Tracker) Observe(samples *store.SampleStore, digital *store.DigitalStore) {
	t.mu.Lock()
	t.samples = samples
	t.digital = digital
	t.mu.Unlock()
}

// Inc adds one to c.
func (t *Tracker) Inc(c Counter) {
	if c < 0 || c >= numCounters {
		return
	}
	t.mu.Lock()
	t.snap.Counts[c]++
	t.mu.Unlock()
}

// SetReady marks the first sampler cycle as complete.
func (t *Tracker) SetReady() {
	t.mu.Lock()
	t.snap.Ready = true
	t.mu.Unlock()
}

// Message records the latest status message delivered by the sink.
func (t *Tracker) Message(msg logic.StatusMessage) {
	t.mu.Lock()
	t.snap.Counts[Messages]++
	t.snap.LastMessage = &msg
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the image state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	samples, digital := t.samples, t.digital
	t.mu.RUnlock()

	if s.LastMessage != nil {
		msg := *s.LastMessage
		s.LastMessage = &msg
	}
	if samples != nil {
		if v := samples.Read(); v.Len() > 0 {
			s.Samples = v.Values()
		}
	}
	if digital != nil {
		s.Digital = digital.Snapshot()
	}
	s.Now = time.Now()
	return s
}
