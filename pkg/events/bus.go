package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Topic identifies a domain event stream.
type Topic string

// Envelope is the stable event structure delivered to every subscriber.
type Envelope struct {
	EventID    uuid.UUID
	Topic      Topic
	OccurredAt time.Time
	Payload    any
}

// Handler consumes a single event. Handlers run synchronously on the
// publisher's goroutine; a returned error does not stop delivery to the
// remaining subscribers.
type Handler func(ctx context.Context, evt Envelope) error

// Bus is an in-process publish/subscribe dispatcher. Subscriptions are
// expected to happen during wiring, before any publish.
type Bus struct {
	mtx      sync.RWMutex
	handlers map[Topic][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[Topic][]Handler)}
}

func (b *Bus) Subscribe(topic Topic, handler Handler) {
	if handler == nil {
		return
	}
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
}

// Publish delivers the payload to every subscriber in registration order
// and returns the combined handler errors.
func (b *Bus) Publish(ctx context.Context, topic Topic, payload any) error {
	b.mtx.RLock()
	handlers := append([]Handler(nil), b.handlers[topic]...)
	b.mtx.RUnlock()

	evt := Envelope{
		EventID:    uuid.New(),
		Topic:      topic,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return multierr.Combine(errs...)
}
