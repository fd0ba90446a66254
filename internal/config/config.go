// Package config holds the compile-time constants of the device image.
// Nothing here is loaded at runtime; Default is the only source of values.
package config

import (
	"fmt"
	"time"

	"github.com/sweeney/boopbox/internal/fault"
	"github.com/sweeney/boopbox/internal/logic"
)

// Config is the full set of timing and sizing constants.
type Config struct {
	SamplePeriod   time.Duration // periodic sampler tick
	AnalogChannels int           // N
	AmbientChannel int           // index of the ambient-light sample

	DigitalLines int           // M
	LinePayload  bool          // edge monitors send line-change events instead of pulses
	Debounce     time.Duration // 0 disables debounce
	EdgeRetry    time.Duration // pause after a failed edge wait

	HoldDuration  time.Duration // motor pulse length
	DarkThreshold uint16        // ambient below this is dark

	AnimationPeriod time.Duration
	StripLength     int
	StripSpacing    int
	OnColor         logic.Color

	AmbientReportPeriod time.Duration // 0 disables the ambient reporter

	EventQueueCapacity   int
	MessageQueueCapacity int
}

// Default returns the constants the device is built with.
func Default() Config {
	return Config{
		SamplePeriod:   10 * time.Millisecond,
		AnalogChannels: 8,
		AmbientChannel: 0,

		DigitalLines: 4,
		LinePayload:  false,
		Debounce:     0,
		EdgeRetry:    50 * time.Millisecond,

		HoldDuration:  100 * time.Millisecond,
		DarkThreshold: 9,

		AnimationPeriod: 1000 * time.Millisecond,
		StripLength:     11,
		StripSpacing:    11,
		OnColor:         logic.Color{R: 255, G: 0, B: 0},

		AmbientReportPeriod: 30 * time.Second,

		EventQueueCapacity:   4,
		MessageQueueCapacity: 8,
	}
}

// Validate checks that the constants are consistent with each other. An
// inconsistent configuration is fatal: no task can run correctly with it.
func (c Config) Validate() error {
	var problem string
	switch {
	case c.SamplePeriod <= 0:
		problem = "sample period must be positive"
	case c.AnalogChannels <= 0:
		problem = "need at least one analog channel"
	case c.AmbientChannel < 0 || c.AmbientChannel >= c.AnalogChannels:
		problem = fmt.Sprintf("ambient channel %d outside 0..%d", c.AmbientChannel, c.AnalogChannels-1)
	case c.DigitalLines <= 0:
		problem = "need at least one digital line"
	case c.Debounce < 0:
		problem = "debounce must not be negative"
	case c.EdgeRetry <= 0:
		problem = "edge retry delay must be positive"
	case c.HoldDuration <= 0:
		problem = "hold duration must be positive"
	case c.AnimationPeriod <= 0:
		problem = "animation period must be positive"
	case c.StripLength <= 0:
		problem = "strip length must be positive"
	case c.StripSpacing <= 0:
		problem = "strip spacing must be positive"
	case c.AmbientReportPeriod < 0:
		problem = "ambient report period must not be negative"
	case c.EventQueueCapacity <= 0:
		problem = "event queue capacity must be positive"
	case c.MessageQueueCapacity <= 0:
		problem = "message queue capacity must be positive"
	default:
		return nil
	}
	return fault.Fatal("validate config", fmt.Errorf("%s: %w", problem, fault.ErrConfig))
}
