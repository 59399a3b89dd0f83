package audit

import (
	"context"
	"time"
)

// Publisher hands events to the worker's inbox without blocking the caller.
// A full inbox drops the event; the lifecycle write it describes has already
// committed, and the trail is diagnostic, not transactional.
type Publisher struct {
	inbox chan<- Event
}

func NewPublisher(inbox chan<- Event) *Publisher {
	return &Publisher{inbox: inbox}
}

func (p *Publisher) Emit(_ context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
	default:
	}
	return nil
}
