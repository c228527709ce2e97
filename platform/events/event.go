// Package events carries domain events between modules inside one process.
// A module publishes what happened (a catalog rebuild landed); interested
// modules subscribe by event name without importing the publisher.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event.
type Event interface {
	// EventName identifies the event type, e.g. "catalog.rebuilt".
	EventName() string
	// OccurredAt is the publish timestamp.
	OccurredAt() time.Time
}

// BaseEvent supplies the timestamp field shared by all events. Embed it and
// implement EventName on the concrete type.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt returns the publish timestamp.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler consumes events of one registered name.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle invokes the wrapped function.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus dispatches events to subscribed handlers.
type Bus interface {
	// Publish fans the event out to its subscribers without waiting for
	// them; handler errors are logged by the bus.
	Publish(ctx context.Context, event Event)

	// PublishSync runs the subscribers inline and returns the first error.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler under an event name. The name must
	// match what the event's EventName returns.
	Subscribe(eventName string, handler Handler)
}
