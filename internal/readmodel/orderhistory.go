// internal/readmodel/orderhistory.go
package readmodel

import (
	"context"
	"sync"
	"time"

	"learnhub/internal/domain"
	"learnhub/internal/domain/order"
	"learnhub/internal/eventlog"
)

// TimelineEntry is one lifecycle event on an order's history.
type TimelineEntry struct {
	EventType string
	At        time.Time
}

// OrderEntry is one order as the history sees it.
type OrderEntry struct {
	OrderID       string
	UserID        string
	PlacedAt      time.Time
	CourseIDs     []string
	TotalAmount   float64
	Currency      string
	Status        string
	PaymentID     string
	PaidAt        time.Time
	RefundReason  string
	RefundAmount  float64
	FailureReason string
	Timeline      []TimelineEntry
}

// OrderHistory maintains per-user order history. A duplicate OrderPlaced for
// the same order id appends a second user entry rather than replacing the
// first; only the by-id lookup is overwritten.
type OrderHistory struct {
	mu         sync.RWMutex
	orders     map[string]*OrderEntry
	userOrders map[string][]*OrderEntry
	handlers   map[string]func(domain.Event)
}

func NewOrderHistory() *OrderHistory {
	p := &OrderHistory{
		orders:     make(map[string]*OrderEntry),
		userOrders: make(map[string][]*OrderEntry),
	}
	p.handlers = map[string]func(domain.Event){
		order.EventOrderPlaced:          p.onPlaced,
		order.EventOrderPaid:            p.onPaid,
		order.EventOrderRefundRequested: p.onRefundRequested,
		order.EventOrderRefunded:        p.onRefunded,
		order.EventOrderCancelled:       p.onCancelled,
		order.EventOrderPaymentFailed:   p.onPaymentFailed,
	}
	return p
}

func (p *OrderHistory) Name() string { return "order-history" }

func (p *OrderHistory) EventTypes() []string {
	types := make([]string, 0, len(p.handlers))
	for t := range p.handlers {
		types = append(types, t)
	}
	return types
}

func (p *OrderHistory) Handle(_ context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if fn, ok := p.handlers[event.EventType()]; ok {
		fn(event)
	}
	return nil
}

// Rebuild resets the history and replays the full event log.
func (p *OrderHistory) Rebuild(log *eventlog.Log) {
	p.mu.Lock()
	p.orders = make(map[string]*OrderEntry)
	p.userOrders = make(map[string][]*OrderEntry)
	p.mu.Unlock()
	replay(log, func(ev domain.Event) {
		p.Handle(context.Background(), ev)
	})
}

func (p *OrderHistory) onPlaced(event domain.Event) {
	e, ok := event.(order.OrderPlaced)
	if !ok {
		return
	}
	courses := make([]string, len(e.CourseIDs))
	for i, id := range e.CourseIDs {
		courses[i] = id.String()
	}
	entry := &OrderEntry{
		OrderID:     e.AggregateID(),
		UserID:      e.UserID.String(),
		PlacedAt:    e.OccurredOn(),
		CourseIDs:   courses,
		TotalAmount: e.TotalAmount.Amount,
		Currency:    e.TotalAmount.Currency,
		Status:      "PLACED",
		Timeline:    []TimelineEntry{{EventType: order.EventOrderPlaced, At: e.OccurredOn()}},
	}
	p.orders[entry.OrderID] = entry
	p.userOrders[entry.UserID] = append(p.userOrders[entry.UserID], entry)
}

func (p *OrderHistory) onPaid(event domain.Event) {
	e, ok := event.(order.OrderPaid)
	if !ok {
		return
	}
	if entry, ok := p.orders[e.AggregateID()]; ok {
		entry.Status = "PAID"
		entry.PaymentID = e.PaymentID
		entry.PaidAt = e.OccurredOn()
		entry.Timeline = append(entry.Timeline, TimelineEntry{EventType: order.EventOrderPaid, At: e.OccurredOn()})
	}
}

func (p *OrderHistory) onRefundRequested(event domain.Event) {
	e, ok := event.(order.OrderRefundRequested)
	if !ok {
		return
	}
	if entry, ok := p.orders[e.AggregateID()]; ok {
		entry.Status = "REFUND_REQUESTED"
		entry.RefundReason = string(e.Reason)
		entry.Timeline = append(entry.Timeline, TimelineEntry{EventType: order.EventOrderRefundRequested, At: e.OccurredOn()})
	}
}

func (p *OrderHistory) onRefunded(event domain.Event) {
	e, ok := event.(order.OrderRefunded)
	if !ok {
		return
	}
	if entry, ok := p.orders[e.AggregateID()]; ok {
		entry.Status = "REFUNDED"
		entry.RefundAmount = e.Amount.Amount
		entry.Timeline = append(entry.Timeline, TimelineEntry{EventType: order.EventOrderRefunded, At: e.OccurredOn()})
	}
}

func (p *OrderHistory) onCancelled(event domain.Event) {
	e, ok := event.(order.OrderCancelled)
	if !ok {
		return
	}
	if entry, ok := p.orders[e.AggregateID()]; ok {
		entry.Status = "CANCELLED"
		entry.Timeline = append(entry.Timeline, TimelineEntry{EventType: order.EventOrderCancelled, At: e.OccurredOn()})
	}
}

func (p *OrderHistory) onPaymentFailed(event domain.Event) {
	e, ok := event.(order.OrderPaymentFailed)
	if !ok {
		return
	}
	if entry, ok := p.orders[e.AggregateID()]; ok {
		entry.Status = "PAYMENT_FAILED"
		entry.FailureReason = e.Reason
		entry.Timeline = append(entry.Timeline, TimelineEntry{EventType: order.EventOrderPaymentFailed, At: e.OccurredOn()})
	}
}

// Order returns a copy of one order entry.
func (p *OrderHistory) Order(orderID string) (OrderEntry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	entry, ok := p.orders[orderID]
	if !ok {
		return OrderEntry{}, false
	}
	return copyOrderEntry(entry), true
}

// OrdersForUser returns copies of a user's order entries in placement order.
func (p *OrderHistory) OrdersForUser(userID string) []OrderEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	entries := p.userOrders[userID]
	out := make([]OrderEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, copyOrderEntry(entry))
	}
	return out
}

func copyOrderEntry(entry *OrderEntry) OrderEntry {
	out := *entry
	out.CourseIDs = append([]string(nil), entry.CourseIDs...)
	out.Timeline = append([]TimelineEntry(nil), entry.Timeline...)
	return out
}
