// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/boopbox/internal/logic"
)

// Topic is the MQTT topic for status messages.
const Topic = "boopbox/status/messages"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "boopbox/system"

// Publisher publishes status messages and system events to MQTT.
type Publisher interface {
	// PublishStatus sends a status message to the broker.
	// Returns error if publishing fails (should not crash the process).
	PublishStatus(msg logic.StatusMessage, ts time.Time) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Message MessagePayload `json:"message"`
}

// MessagePayload contains one status message.
type MessagePayload struct {
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
	Text      string `json:"text"`
}

// FormatPayload creates the JSON payload for a status message.
func FormatPayload(msg logic.StatusMessage, ts time.Time) ([]byte, error) {
	payload := Payload{
		Message: MessagePayload{
			Timestamp: ts.UTC().Format(time.RFC3339),
			Source:    msg.Source,
			Text:      msg.Text,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp,omitempty"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	inner := SystemPayloadInner{
		Event:  event.Event,
		Reason: event.Reason,
	}
	if !event.Timestamp.IsZero() {
		inner.Timestamp = event.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(SystemPayload{System: inner})
}

// Emitter forwards status messages to a Publisher, stamping them with the
// time of emission.
type Emitter struct {
	pub Publisher
	now func() time.Time
}

// NewEmitter creates an Emitter for pub.
func NewEmitter(pub Publisher) *Emitter {
	return &Emitter{pub: pub, now: time.Now}
}

// Emit publishes msg.
func (e *Emitter) Emit(msg logic.StatusMessage) error {
	return e.pub.PublishStatus(msg, e.now())
}
