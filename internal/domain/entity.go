// internal/domain/entity.go
package domain

import "time"

// Entity is the base every aggregate embeds: creation/update timestamps and
// the queue of domain events collected during a unit of work. Events are
// drained by the application service after the aggregate is persisted.
type Entity struct {
	CreatedAt time.Time
	UpdatedAt time.Time

	pending []Event
}

// NewEntity initializes the timestamps.
func NewEntity() Entity {
	now := time.Now().UTC()
	return Entity{CreatedAt: now, UpdatedAt: now}
}

// Touch bumps the updated-at timestamp.
func (e *Entity) Touch() { e.UpdatedAt = time.Now().UTC() }

// Record queues a domain event and touches the entity.
func (e *Entity) Record(ev Event) {
	e.pending = append(e.pending, ev)
	e.Touch()
}

// PendingEvents returns a copy of the queued events.
func (e *Entity) PendingEvents() []Event {
	out := make([]Event, len(e.pending))
	copy(out, e.pending)
	return out
}

// DrainEvents returns the queued events and clears the queue.
func (e *Entity) DrainEvents() []Event {
	out := e.pending
	e.pending = nil
	return out
}

// ClearEvents drops any queued events.
func (e *Entity) ClearEvents() { e.pending = nil }
