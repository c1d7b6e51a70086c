package messaging

import (
	"context"
)

const (
	// OrdersPlacedSubject carries events for newly placed orders.
	OrdersPlacedSubject = "orders.placed"
	// OrdersStatusChangedSubject carries order lifecycle transitions.
	OrdersStatusChangedSubject = "orders.status_changed"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher discards all events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, _ Event) error { return nil }
