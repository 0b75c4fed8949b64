// internal/app/app.go
package app

import (
	"context"

	"learnhub/internal/domain"
	"learnhub/internal/eventbus"
	"learnhub/internal/eventlog"
)

// Result is the uniform outcome DTO application services return.
type Result struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// drainer is satisfied by every aggregate through the embedded entity.
type drainer interface {
	DrainEvents() []domain.Event
}

// publish drains an aggregate's queued events, appends them to the log and
// delivers them synchronously on the bus.
func publish(ctx context.Context, log *eventlog.Log, bus *eventbus.Bus, agg drainer) {
	events := agg.DrainEvents()
	if len(events) == 0 {
		return
	}
	log.Append(ctx, events...)
	for _, ev := range events {
		bus.PublishSync(ctx, ev)
	}
}
