// internal/eventlog/eventlog.go
package eventlog

import (
	"context"
	"errors"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"learnhub/internal/domain"
)

var ErrVersionConflict = errors.New("version conflict: aggregate was modified concurrently")

// Entry is one appended event with its global sequence number and
// per-aggregate version.
type Entry struct {
	Seq     int64
	Version int
	Event   domain.Event
}

// Log is an append-only, in-memory event log. Every event gets a global
// sequence number and a monotonically increasing version within its
// aggregate. Projections rebuild by folding over Stream.
type Log struct {
	mu       sync.RWMutex
	entries  []Entry
	versions map[string]int
	tracer   trace.Tracer
}

// New returns an empty log.
func New() *Log {
	return &Log{
		versions: make(map[string]int),
		tracer:   otel.Tracer("learnhub/eventlog"),
	}
}

// Append records events in order, bumping each aggregate's version.
func (l *Log) Append(ctx context.Context, events ...domain.Event) {
	_, span := l.tracer.Start(ctx, "eventlog.append",
		trace.WithAttributes(attribute.Int("event.count", len(events))),
	)
	defer span.End()

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ev := range events {
		l.append(ev)
		span.AddEvent("event.appended", trace.WithAttributes(
			attribute.String("event.type", ev.EventType()),
			attribute.String("aggregate.id", ev.AggregateID()),
		))
	}
}

// AppendExpecting appends with optimistic concurrency: if the aggregate's
// current version differs from expectedVersion it returns ErrVersionConflict
// and records nothing.
func (l *Log) AppendExpecting(ctx context.Context, aggregateID string, expectedVersion int, events ...domain.Event) error {
	_, span := l.tracer.Start(ctx, "eventlog.append_expecting",
		trace.WithAttributes(
			attribute.String("aggregate.id", aggregateID),
			attribute.Int("expected.version", expectedVersion),
			attribute.Int("event.count", len(events)),
		),
	)
	defer span.End()

	l.mu.Lock()
	defer l.mu.Unlock()
	current := l.versions[aggregateID]
	if current != expectedVersion {
		span.SetAttributes(
			attribute.Int("actual.version", current),
			attribute.Bool("conflict.detected", true),
		)
		return ErrVersionConflict
	}
	for _, ev := range events {
		l.append(ev)
	}
	return nil
}

func (l *Log) append(ev domain.Event) {
	version := l.versions[ev.AggregateID()] + 1
	l.versions[ev.AggregateID()] = version
	l.entries = append(l.entries, Entry{
		Seq:     int64(len(l.entries) + 1),
		Version: version,
		Event:   ev,
	})
}

// Version returns the current version of an aggregate, zero when unknown.
func (l *Log) Version(aggregateID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.versions[aggregateID]
}

// ByAggregate returns all entries for one aggregate in version order.
func (l *Log) ByAggregate(aggregateID string) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Entry
	for _, entry := range l.entries {
		if entry.Event.AggregateID() == aggregateID {
			out = append(out, entry)
		}
	}
	return out
}

// ByType returns all entries whose event type matches one of the tags.
func (l *Log) ByType(tags ...string) []Entry {
	want := make(map[string]bool, len(tags))
	for _, tag := range tags {
		want[tag] = true
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Entry
	for _, entry := range l.entries {
		if want[entry.Event.EventType()] {
			out = append(out, entry)
		}
	}
	return out
}

// Stream returns up to batchSize entries with sequence numbers greater than
// fromSeq, in sequence order.
func (l *Log) Stream(fromSeq int64, batchSize int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Entry
	for _, entry := range l.entries {
		if entry.Seq <= fromSeq {
			continue
		}
		out = append(out, entry)
		if len(out) == batchSize {
			break
		}
	}
	return out
}

// Len reports the total number of appended events.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
