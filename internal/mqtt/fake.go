package mqtt

import (
	"sync"
	"time"

	"github.com/sweeney/boopbox/internal/logic"
)

// StatusRecord is one status message recorded by FakePublisher.
type StatusRecord struct {
	Message   logic.StatusMessage
	Timestamp time.Time
}

// FakePublisher records published messages for test assertions.
// Fields may be read directly once the goroutines publishing to it have
// stopped; use Statuses while they are running.
type FakePublisher struct {
	mu sync.Mutex

	// Messages contains all status messages that were published.
	Messages []StatusRecord

	// Payloads contains the JSON payloads that were published.
	Payloads [][]byte

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// PublishError, if set, will be returned by PublishStatus.
	PublishError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishStatus records the status message.
func (f *FakePublisher) PublishStatus(msg logic.StatusMessage, ts time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}

	payload, err := FormatPayload(msg, ts)
	if err != nil {
		return err
	}
	f.Messages = append(f.Messages, StatusRecord{Message: msg, Timestamp: ts})
	f.Payloads = append(f.Payloads, payload)
	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemEvents = append(f.SystemEvents, event)
	f.SystemPayloads = append(f.SystemPayloads, payload)
	return nil
}

// Statuses returns a copy of the recorded status messages.
func (f *FakePublisher) Statuses() []StatusRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]StatusRecord, len(f.Messages))
	copy(out, f.Messages)
	return out
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Connected
}

// Reset clears recorded messages.
func (f *FakePublisher) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Messages = nil
	f.Payloads = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.PublishError = nil
	f.PublishSystemError = nil
	f.Connected = false
}
