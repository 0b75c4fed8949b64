// internal/readmodel/readmodel.go

// Package readmodel holds the query-side projections. Each projection is a
// pure fold over the event stream: a dispatch table keyed by event type tag,
// an RWMutex-guarded map, and getters that hand out defensive copies.
// Projections never reach back into aggregates or repositories.
package readmodel

import (
	"context"

	"learnhub/internal/domain"
	"learnhub/internal/eventlog"
)

const rebuildBatch = 256

// Projection is the common surface the composition root wires to the bus.
type Projection interface {
	Name() string
	EventTypes() []string
	Handle(ctx context.Context, event domain.Event) error
}

// replay folds every logged event through apply, in sequence order.
func replay(log *eventlog.Log, apply func(domain.Event)) {
	var from int64
	for {
		batch := log.Stream(from, rebuildBatch)
		if len(batch) == 0 {
			return
		}
		for _, entry := range batch {
			apply(entry.Event)
			from = entry.Seq
		}
	}
}
