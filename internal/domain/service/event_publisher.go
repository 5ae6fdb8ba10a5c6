package service

import (
	"context"
	"time"
)

// Domain event types published to the message bus.
const (
	EventOrderPlaced       = "order.placed"
	EventOrderCancelled    = "order.cancelled"
	EventOrderStatusMoved  = "order.status_changed"
	EventPaymentSettled    = "payment.settled"
	EventDidiApplied       = "didi.applied"
	EventDidiApproved      = "didi.approved"
	EventDidiRejected      = "didi.rejected"
	EventTrainingCompleted = "training.completed"
)

// DomainEvent is the envelope carried on the event bus. Payload keys
// are event-specific; consumers must tolerate unknown keys.
type DomainEvent struct {
	RequestID  string            `json:"request_id,omitempty"` // For distributed tracing
	Type       string            `json:"type"`
	OccurredAt time.Time         `json:"occurred_at"`
	Payload    map[string]string `json:"payload"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// Publish emits a domain event for async processing.
	Publish(ctx context.Context, event *DomainEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
