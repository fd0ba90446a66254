// Package logic contains the pure behaviour of the device: events, status
// messages, the chase animation, debounce and message formatting.
// This package has NO external dependencies (no GPIO, queues, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import (
	"strconv"
	"unicode/utf8"
)

// EventKind tags the payload of an Event.
type EventKind uint8

const (
	// EventPulse is a pure wake-up with no payload.
	EventPulse EventKind = iota
	// EventLineChange carries the line index and its new level.
	EventLineChange
)

// Event is produced by an edge monitor and consumed once by the aggregator.
type Event struct {
	Kind  EventKind
	Line  int  // valid for EventLineChange
	Level bool // valid for EventLineChange
}

// Pulse returns a wake-up event.
func Pulse() Event { return Event{Kind: EventPulse} }

// LineChange returns an event reporting that line now reads level.
func LineChange(line int, level bool) Event {
	return Event{Kind: EventLineChange, Line: line, Level: level}
}

func (e Event) String() string {
	if e.Kind == EventPulse {
		return "pulse"
	}
	return "line " + strconv.Itoa(e.Line) + "=" + strconv.Itoa(boolToInt(e.Level))
}

// MaxMessageLen bounds the text of a StatusMessage, in bytes.
const MaxMessageLen = 64

// StatusMessage is a bounded text record for the status sink.
type StatusMessage struct {
	Source string // task that produced the message
	Text   string
}

// NewStatusMessage builds a message, truncating text to MaxMessageLen bytes
// without splitting a rune.
func NewStatusMessage(source, text string) StatusMessage {
	return StatusMessage{Source: source, Text: truncate(text, MaxMessageLen)}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Color is one 3-byte LED value.
type Color struct {
	R, G, B uint8
}

// Off is the unlit color.
var Off = Color{}

// Light is the ambient-light classification.
type Light string

const (
	LightDark  Light = "dark"
	LightLight Light = "light"
)

// Classify reports dark when the sample is below threshold.
func Classify(sample, threshold uint16) Light {
	if sample < threshold {
		return LightDark
	}
	return LightLight
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
