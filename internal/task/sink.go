package task

import (
	"context"
	"log"

	"github.com/sweeney/boopbox/internal/logic"
	"github.com/sweeney/boopbox/internal/queue"
	"github.com/sweeney/boopbox/internal/status"
)

// Emitter delivers a status message to one output. Delivery is best effort.
type Emitter interface {
	Emit(msg logic.StatusMessage) error
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(msg logic.StatusMessage) error

func (f EmitterFunc) Emit(msg logic.StatusMessage) error { return f(msg) }

// LogEmitter writes messages to the standard logger as "source: text".
type LogEmitter struct{}

func (LogEmitter) Emit(msg logic.StatusMessage) error {
	log.Printf("%s: %s", msg.Source, msg.Text)
	return nil
}

// Sink drains the message queue into its emitters.
type Sink struct {
	messages *queue.Queue[logic.StatusMessage]
	emitters []Emitter
	rec      Recorder
}

// NewSink creates a sink writing to every emitter in order.
func NewSink(messages *queue.Queue[logic.StatusMessage], rec Recorder, emitters ...Emitter) *Sink {
	return &Sink{messages: messages, emitters: emitters, rec: orNop(rec)}
}

// Deliver hands msg to every emitter. An emitter failure does not stop the
// others.
func (s *Sink) Deliver(msg logic.StatusMessage) {
	for _, e := range s.emitters {
		if err := e.Emit(msg); err != nil {
			s.rec.Inc(status.EmitErrors)
			log.Printf("sink: emit from %s: %v", msg.Source, err)
		}
	}
	s.rec.Message(msg)
}

// Run delivers messages in queue order until ctx is done.
func (s *Sink) Run(ctx context.Context) error {
	for {
		msg, err := s.messages.Recv(ctx)
		if err != nil {
			return nil
		}
		s.Deliver(msg)
	}
}
