// internal/domain/event.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is the contract every domain event satisfies. Events are immutable
// records of an aggregate transition; the type tag keys bus subscriptions and
// projection dispatch tables.
type Event interface {
	EventID() string
	EventType() string
	OccurredOn() time.Time
	AggregateType() string
	AggregateID() string
	// Payload flattens the event for serialization boundaries: identifiers
	// reduce to their string value, value objects to scalars.
	Payload() map[string]any
}

// EventBase carries the metadata common to all events. Concrete event structs
// embed it and add their own fields plus EventType/Payload.
type EventBase struct {
	ID      string
	At      time.Time
	AggType string
	AggID   string
}

// NewEventBase stamps a fresh event id and occurrence time.
func NewEventBase(aggregateType, aggregateID string) EventBase {
	return EventBase{
		ID:      uuid.NewString(),
		At:      time.Now().UTC(),
		AggType: aggregateType,
		AggID:   aggregateID,
	}
}

func (e EventBase) EventID() string       { return e.ID }
func (e EventBase) OccurredOn() time.Time { return e.At }
func (e EventBase) AggregateType() string { return e.AggType }
func (e EventBase) AggregateID() string   { return e.AggID }

// BasePayload is the shared portion of every event payload.
func (e EventBase) BasePayload(eventType string) map[string]any {
	return map[string]any{
		"event_id":       e.ID,
		"occurred_on":    e.At.Format(time.RFC3339Nano),
		"aggregate_type": e.AggType,
		"aggregate_id":   e.AggID,
		"event_type":     eventType,
	}
}
