// internal/app/order.go
package app

import (
	"context"
	"fmt"
	"time"

	"learnhub/internal/domain"
	"learnhub/internal/domain/order"
	"learnhub/internal/eventbus"
	"learnhub/internal/eventlog"
	"learnhub/internal/repository"
	"learnhub/internal/service"
)

type PlaceOrderCommand struct {
	UserID    string
	CourseIDs []string
}

type PayOrderCommand struct {
	OrderID       string
	PaymentID     string
	Method        string
	TransactionID string
	AccessExpires *time.Time
}

type RequestRefundCommand struct {
	OrderID string
	Reason  string
}

// OrderService handles the purchase flow from placement through payment,
// cancellation and refunds.
type OrderService struct {
	orders      *repository.OrderRepository
	users       *repository.UserRepository
	courses     *repository.CourseRepository
	processing  *service.OrderProcessingService
	eligibility *service.RefundEligibilityService
	log         *eventlog.Log
	bus         *eventbus.Bus
}

func NewOrderService(
	orders *repository.OrderRepository,
	users *repository.UserRepository,
	courses *repository.CourseRepository,
	processing *service.OrderProcessingService,
	eligibility *service.RefundEligibilityService,
	log *eventlog.Log,
	bus *eventbus.Bus,
) *OrderService {
	return &OrderService{
		orders:      orders,
		users:       users,
		courses:     courses,
		processing:  processing,
		eligibility: eligibility,
		log:         log,
		bus:         bus,
	}
}

// PlaceOrder creates a pending order, snapshotting each course's price and
// policy at purchase time.
func (s *OrderService) PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (Result, error) {
	u, err := s.users.ByID(domain.UserID(cmd.UserID))
	if err != nil {
		return Result{}, err
	}
	if !u.CanPlaceOrder() {
		return Result{}, fmt.Errorf("%w: user %s cannot place orders", domain.ErrInvalidTransition, u.ID)
	}

	items := make([]order.Item, 0, len(cmd.CourseIDs))
	for _, raw := range cmd.CourseIDs {
		c, err := s.courses.ByID(domain.CourseID(raw))
		if err != nil {
			return Result{}, err
		}
		items = append(items, order.Item{
			CourseID:      c.ID,
			PriceSnapshot: c.Price,
			PolicyID:      c.PolicyID,
		})
	}

	o, err := order.Create(u.ID, items)
	if err != nil {
		return Result{}, err
	}
	if err := s.orders.Save(o); err != nil {
		return Result{}, err
	}
	publish(ctx, s.log, s.bus, o)
	return Result{ID: string(o.ID), Status: string(o.Status), Message: "order placed"}, nil
}

// PayOrder confirms payment and grants access to every course in the order.
func (s *OrderService) PayOrder(ctx context.Context, cmd PayOrderCommand) (Result, error) {
	info, err := domain.NewPaymentInfo(cmd.PaymentID, cmd.Method, cmd.TransactionID)
	if err != nil {
		return Result{}, err
	}
	o, records, err := s.processing.ProcessPayment(domain.OrderID(cmd.OrderID), info, cmd.AccessExpires)
	if err != nil {
		return Result{}, err
	}
	publish(ctx, s.log, s.bus, o)
	for _, rec := range records {
		publish(ctx, s.log, s.bus, rec)
	}
	return Result{ID: string(o.ID), Status: string(o.Status), Message: "payment confirmed"}, nil
}

// RequestRefund opens the refund flow after the eligibility check passes.
func (s *OrderService) RequestRefund(ctx context.Context, cmd RequestRefundCommand) (Result, error) {
	o, err := s.orders.ByID(domain.OrderID(cmd.OrderID))
	if err != nil {
		return Result{}, err
	}
	reason, err := order.ParseRefundReason(cmd.Reason)
	if err != nil {
		return Result{}, err
	}
	eligible, why := s.eligibility.Evaluate(o.ID, time.Now().UTC())
	if !eligible {
		return Result{}, fmt.Errorf("%w: %s", domain.ErrInvalidTransition, why)
	}
	if err := o.RequestRefund(reason); err != nil {
		return Result{}, err
	}
	if err := s.orders.Save(o); err != nil {
		return Result{}, err
	}
	publish(ctx, s.log, s.bus, o)
	return Result{ID: string(o.ID), Status: string(o.Status), Message: why}, nil
}

// ApproveRefund completes the refund and revokes access to the order's
// courses.
func (s *OrderService) ApproveRefund(ctx context.Context, orderID string) (Result, error) {
	o, err := s.orders.ByID(domain.OrderID(orderID))
	if err != nil {
		return Result{}, err
	}
	reason := string(o.RefundReason)
	o, revoked, err := s.processing.ProcessRefund(o.ID, o.TotalAmount, reason)
	if err != nil {
		return Result{}, err
	}
	publish(ctx, s.log, s.bus, o)
	for _, rec := range revoked {
		publish(ctx, s.log, s.bus, rec)
	}
	return Result{ID: string(o.ID), Status: string(o.Status), Message: "refund approved"}, nil
}

// RejectRefund discards the pending refund request.
func (s *OrderService) RejectRefund(ctx context.Context, orderID string) (Result, error) {
	o, err := s.orders.ByID(domain.OrderID(orderID))
	if err != nil {
		return Result{}, err
	}
	if err := o.RejectRefund(); err != nil {
		return Result{}, err
	}
	if err := s.orders.Save(o); err != nil {
		return Result{}, err
	}
	return Result{ID: string(o.ID), Status: string(o.Status), Message: "refund rejected"}, nil
}

// CancelOrder terminates a pending order.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, reason string) (Result, error) {
	o, err := s.orders.ByID(domain.OrderID(orderID))
	if err != nil {
		return Result{}, err
	}
	if err := o.Cancel(reason); err != nil {
		return Result{}, err
	}
	if err := s.orders.Save(o); err != nil {
		return Result{}, err
	}
	publish(ctx, s.log, s.bus, o)
	return Result{ID: string(o.ID), Status: string(o.Status), Message: "order cancelled"}, nil
}

// FailPayment records a failed payment attempt on a pending order.
func (s *OrderService) FailPayment(ctx context.Context, orderID, reason string) (Result, error) {
	o, err := s.orders.ByID(domain.OrderID(orderID))
	if err != nil {
		return Result{}, err
	}
	if err := o.MarkPaymentFailed(reason); err != nil {
		return Result{}, err
	}
	if err := s.orders.Save(o); err != nil {
		return Result{}, err
	}
	publish(ctx, s.log, s.bus, o)
	return Result{ID: string(o.ID), Status: string(o.Status), Message: "payment failed"}, nil
}
