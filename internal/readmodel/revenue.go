// internal/readmodel/revenue.go
package readmodel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"learnhub/internal/domain"
	"learnhub/internal/domain/order"
	"learnhub/internal/eventlog"
)

// RevenueBucket is one rollup cell: totals for a day, a week, a month, or
// globally.
type RevenueBucket struct {
	Paid     float64
	Refunded float64
	Net      float64
	Orders   int
	Refunds  int
}

// RevenueSummary aggregates paid and refunded revenue globally and per
// day, ISO week and month.
type RevenueSummary struct {
	mu       sync.RWMutex
	totals   RevenueBucket
	byDay    map[string]*RevenueBucket
	byWeek   map[string]*RevenueBucket
	byMonth  map[string]*RevenueBucket
	handlers map[string]func(domain.Event)
}

func NewRevenueSummary() *RevenueSummary {
	p := &RevenueSummary{
		byDay:   make(map[string]*RevenueBucket),
		byWeek:  make(map[string]*RevenueBucket),
		byMonth: make(map[string]*RevenueBucket),
	}
	p.handlers = map[string]func(domain.Event){
		order.EventOrderPaid:     p.onPaid,
		order.EventOrderRefunded: p.onRefunded,
	}
	return p
}

func (p *RevenueSummary) Name() string { return "revenue-summary" }

func (p *RevenueSummary) EventTypes() []string {
	return []string{order.EventOrderPaid, order.EventOrderRefunded}
}

func (p *RevenueSummary) Handle(_ context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if fn, ok := p.handlers[event.EventType()]; ok {
		fn(event)
	}
	return nil
}

// Rebuild resets the summary and replays the full event log.
func (p *RevenueSummary) Rebuild(log *eventlog.Log) {
	p.mu.Lock()
	p.totals = RevenueBucket{}
	p.byDay = make(map[string]*RevenueBucket)
	p.byWeek = make(map[string]*RevenueBucket)
	p.byMonth = make(map[string]*RevenueBucket)
	p.mu.Unlock()
	replay(log, func(ev domain.Event) {
		p.Handle(context.Background(), ev)
	})
}

// DayKey formats a timestamp as the projection's per-day bucket key.
func DayKey(t time.Time) string { return t.Format("2006-01-02") }

// WeekKey formats a timestamp as the projection's ISO-week bucket key.
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// MonthKey formats a timestamp as the projection's per-month bucket key.
func MonthKey(t time.Time) string { return t.Format("2006-01") }

func (p *RevenueSummary) bucketsFor(at time.Time) []*RevenueBucket {
	keys := []struct {
		m   map[string]*RevenueBucket
		key string
	}{
		{p.byDay, DayKey(at)},
		{p.byWeek, WeekKey(at)},
		{p.byMonth, MonthKey(at)},
	}
	out := make([]*RevenueBucket, 0, len(keys))
	for _, k := range keys {
		b, ok := k.m[k.key]
		if !ok {
			b = &RevenueBucket{}
			k.m[k.key] = b
		}
		out = append(out, b)
	}
	return out
}

func (p *RevenueSummary) onPaid(event domain.Event) {
	e, ok := event.(order.OrderPaid)
	if !ok {
		return
	}
	amount := e.Amount.Amount
	p.totals.Paid += amount
	p.totals.Net += amount
	p.totals.Orders++
	for _, b := range p.bucketsFor(e.OccurredOn()) {
		b.Paid += amount
		b.Net += amount
		b.Orders++
	}
}

func (p *RevenueSummary) onRefunded(event domain.Event) {
	e, ok := event.(order.OrderRefunded)
	if !ok {
		return
	}
	amount := e.Amount.Amount
	p.totals.Refunded += amount
	p.totals.Net -= amount
	p.totals.Refunds++
	for _, b := range p.bucketsFor(e.OccurredOn()) {
		b.Refunded += amount
		b.Net -= amount
		b.Refunds++
	}
}

// Totals returns the global rollup.
func (p *RevenueSummary) Totals() RevenueBucket {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.totals
}

// ByDay returns the rollup for one day key, zero-valued when absent.
func (p *RevenueSummary) ByDay(key string) RevenueBucket { return p.lookup(p.byDay, key) }

// ByWeek returns the rollup for one ISO-week key, zero-valued when absent.
func (p *RevenueSummary) ByWeek(key string) RevenueBucket { return p.lookup(p.byWeek, key) }

// ByMonth returns the rollup for one month key, zero-valued when absent.
func (p *RevenueSummary) ByMonth(key string) RevenueBucket { return p.lookup(p.byMonth, key) }

func (p *RevenueSummary) lookup(m map[string]*RevenueBucket, key string) RevenueBucket {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if b, ok := m[key]; ok {
		return *b
	}
	return RevenueBucket{}
}
