package audit

import (
	"context"
	"errors"

	"algowatch/pkg/requestcontext"
)

// ErrQueueFull is returned by Emit when the worker has fallen behind.
var ErrQueueFull = errors.New("audit queue full")

// Sink persists or forwards audit events.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Publisher queues events for a Worker so request latency never includes the
// sink round trip. Emit never blocks.
type Publisher struct {
	inbox chan Event
}

func NewPublisher(buffer int) *Publisher {
	if buffer <= 0 {
		buffer = 1
	}
	return &Publisher{inbox: make(chan Event, buffer)}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	select {
	case p.inbox <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Inbox is the channel a Worker drains.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}

// Pending returns the number of queued events.
func (p *Publisher) Pending() int {
	return len(p.inbox)
}
