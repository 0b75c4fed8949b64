// internal/analytics/order.go

// Package analytics holds bus subscribers that watch the event stream for
// operational insight: counters, engagement tracking and compliance
// warnings. Handlers keep their own state and expose it for inspection.
package analytics

import (
	"context"
	"sync"

	"learnhub/internal/domain"
	"learnhub/internal/domain/order"
)

// OrderMetrics is a snapshot of the order counters.
type OrderMetrics struct {
	OrdersPlaced    int
	OrdersPaid      int
	OrdersCancelled int
	PaymentFailures int
	RefundRequests  int
	Refunds         int
	GrossRevenue    float64
	RefundedAmount  float64
}

// OrderAnalytics counts order lifecycle events and tracks revenue flow.
type OrderAnalytics struct {
	mu      sync.Mutex
	metrics OrderMetrics
}

func NewOrderAnalytics() *OrderAnalytics { return &OrderAnalytics{} }

func (h *OrderAnalytics) Name() string { return "order-analytics" }

// EventTypes lists the subscriptions this handler needs.
func (h *OrderAnalytics) EventTypes() []string {
	return []string{
		order.EventOrderPlaced,
		order.EventOrderPaid,
		order.EventOrderCancelled,
		order.EventOrderPaymentFailed,
		order.EventOrderRefundRequested,
		order.EventOrderRefunded,
	}
}

func (h *OrderAnalytics) Handle(_ context.Context, event domain.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch e := event.(type) {
	case order.OrderPlaced:
		h.metrics.OrdersPlaced++
	case order.OrderPaid:
		h.metrics.OrdersPaid++
		h.metrics.GrossRevenue += e.Amount.Amount
	case order.OrderCancelled:
		h.metrics.OrdersCancelled++
	case order.OrderPaymentFailed:
		h.metrics.PaymentFailures++
	case order.OrderRefundRequested:
		h.metrics.RefundRequests++
	case order.OrderRefunded:
		h.metrics.Refunds++
		h.metrics.RefundedAmount += e.Amount.Amount
	}
	return nil
}

// Metrics returns a snapshot of the counters.
func (h *OrderAnalytics) Metrics() OrderMetrics {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.metrics
}
