// Package pubsub is a small typed broker with replay, and the glue that turns
// a subscription into Bubble Tea commands. The debug log publishes through it
// so the log pane can follow new entries.
package pubsub

import (
	"context"
	"time"
)

// EventType tags an event. Brokers do not interpret it.
type EventType string

// EntryEvent is published once per appended entry.
const EntryEvent EventType = "entry"

// Event is one published payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
