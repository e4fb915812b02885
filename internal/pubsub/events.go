// Package pubsub provides a generic publish/subscribe event system.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// RegisteredEvent announces a new entry bound to a vacant compound key.
	RegisteredEvent EventType = "registered"
	// OverriddenEvent announces an entry displacing a prior one under the
	// same compound key.
	OverriddenEvent EventType = "overridden"
	// RepopulatedEvent announces a completed bulk population pass.
	RepopulatedEvent EventType = "repopulated"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
