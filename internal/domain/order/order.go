// internal/domain/order/order.go
package order

import (
	"fmt"

	"learnhub/internal/domain"
)

// Status is the order lifecycle state.
type Status string

const (
	StatusPending         Status = "pending"
	StatusPaid            Status = "paid"
	StatusFailed          Status = "failed"
	StatusRefundRequested Status = "refund_requested"
	StatusRefunded        Status = "refunded"
	StatusCancelled       Status = "cancelled"
)

// RefundReason classifies a refund request.
type RefundReason string

const (
	ReasonNotSatisfied      RefundReason = "not_satisfied"
	ReasonTechnicalIssues   RefundReason = "technical_issues"
	ReasonChangedMind       RefundReason = "changed_mind"
	ReasonDuplicatePurchase RefundReason = "duplicate_purchase"
	ReasonOther             RefundReason = "other"
)

// ParseRefundReason maps the wire value onto a RefundReason.
func ParseRefundReason(value string) (RefundReason, error) {
	switch RefundReason(value) {
	case ReasonNotSatisfied, ReasonTechnicalIssues, ReasonChangedMind, ReasonDuplicatePurchase, ReasonOther:
		return RefundReason(value), nil
	}
	return "", fmt.Errorf("%w: unknown refund reason %q", domain.ErrValidation, value)
}

// Item is a course purchase line: the course, the price at purchase time and
// the refund policy in force. Quantity is fixed at one per course.
type Item struct {
	CourseID      domain.CourseID
	PriceSnapshot domain.Money
	PolicyID      domain.PolicyID
}

// Order is the aggregate root for a purchase transaction. Transitions are
// strictly one-directional: pending orders can be paid, cancelled or failed;
// paid orders can enter the refund flow.
type Order struct {
	domain.Entity

	ID                 domain.OrderID
	UserID             domain.UserID
	Items              []Item
	Status             Status
	TotalAmount        domain.Money
	PaymentInfo        *domain.PaymentInfo
	RefundReason       RefundReason
	RefundAmount       *domain.Money
	CancellationReason string
	FailureReason      string
}

// Create builds a pending order from its items, validates single-currency
// totals, and queues OrderPlaced.
func Create(userID domain.UserID, items []Item) (*Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", domain.ErrValidation)
	}
	total := domain.Money{Amount: 0, Currency: items[0].PriceSnapshot.Currency}
	seen := make(map[domain.CourseID]bool, len(items))
	for _, item := range items {
		if seen[item.CourseID] {
			return nil, fmt.Errorf("%w: course %s appears twice in order", domain.ErrValidation, item.CourseID)
		}
		seen[item.CourseID] = true
		sum, err := total.Add(item.PriceSnapshot)
		if err != nil {
			return nil, fmt.Errorf("%w: all items must share one currency", domain.ErrValidation)
		}
		total = sum
	}

	id := domain.OrderID(domain.NextID())
	o := &Order{
		Entity:      domain.NewEntity(),
		ID:          id,
		UserID:      userID,
		Items:       items,
		Status:      StatusPending,
		TotalAmount: total,
	}
	o.Record(NewOrderPlaced(id, userID, o.CourseIDs(), total))
	return o, nil
}

// CourseIDs lists the courses in the order.
func (o *Order) CourseIDs() []domain.CourseID {
	ids := make([]domain.CourseID, len(o.Items))
	for i, item := range o.Items {
		ids[i] = item.CourseID
	}
	return ids
}

// AddItem appends a course to a pending order.
func (o *Order) AddItem(item Item) error {
	if o.Status != StatusPending {
		return fmt.Errorf("%w: cannot add items to non-pending order", domain.ErrInvalidTransition)
	}
	for _, existing := range o.Items {
		if existing.CourseID == item.CourseID {
			return fmt.Errorf("%w: course already in order", domain.ErrConflict)
		}
	}
	total, err := o.TotalAmount.Add(item.PriceSnapshot)
	if err != nil {
		return fmt.Errorf("%w: item currency must match order currency", domain.ErrValidation)
	}
	o.Items = append(o.Items, item)
	o.TotalAmount = total
	o.Touch()
	return nil
}

// RemoveItem drops a course from a pending order.
func (o *Order) RemoveItem(courseID domain.CourseID) error {
	if o.Status != StatusPending {
		return fmt.Errorf("%w: cannot remove items from non-pending order", domain.ErrInvalidTransition)
	}
	for i, item := range o.Items {
		if item.CourseID == courseID {
			total, err := o.TotalAmount.Subtract(item.PriceSnapshot)
			if err != nil {
				return err
			}
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			o.TotalAmount = total
			o.Touch()
			return nil
		}
	}
	return fmt.Errorf("%w: course not found in order", domain.ErrNotFound)
}

// ConfirmPayment moves a pending order to paid and queues OrderPaid.
func (o *Order) ConfirmPayment(info domain.PaymentInfo) error {
	if o.Status != StatusPending {
		return fmt.Errorf("%w: only pending orders can be paid", domain.ErrInvalidTransition)
	}
	o.Status = StatusPaid
	o.PaymentInfo = &info
	o.Record(NewOrderPaid(o.ID, o.UserID, o.CourseIDs(), info.PaymentID, o.TotalAmount))
	return nil
}

// Cancel terminates a pending order and queues OrderCancelled.
func (o *Order) Cancel(reason string) error {
	if o.Status != StatusPending {
		return fmt.Errorf("%w: cannot cancel order in status %s", domain.ErrInvalidTransition, o.Status)
	}
	o.Status = StatusCancelled
	o.CancellationReason = reason
	o.Record(NewOrderCancelled(o.ID, o.UserID))
	return nil
}

// MarkPaymentFailed records a failed payment attempt on a pending order.
func (o *Order) MarkPaymentFailed(reason string) error {
	if o.Status != StatusPending {
		return fmt.Errorf("%w: only pending orders can fail payment", domain.ErrInvalidTransition)
	}
	o.Status = StatusFailed
	o.FailureReason = reason
	o.Record(NewOrderPaymentFailed(o.ID, o.UserID, reason))
	return nil
}

// CanBeRefunded reports whether a refund may be requested.
func (o *Order) CanBeRefunded() bool { return o.Status == StatusPaid }

// RequestRefund opens the refund flow on a paid order.
func (o *Order) RequestRefund(reason RefundReason) error {
	if !o.CanBeRefunded() {
		return fmt.Errorf("%w: order cannot be refunded in status %s", domain.ErrInvalidTransition, o.Status)
	}
	o.Status = StatusRefundRequested
	o.RefundReason = reason
	o.Record(NewOrderRefundRequested(o.ID, o.UserID, o.CourseIDs(), reason))
	return nil
}

// ApproveRefund completes the refund flow and queues OrderRefunded.
func (o *Order) ApproveRefund(amount domain.Money) error {
	if o.Status != StatusRefundRequested {
		return fmt.Errorf("%w: only orders with refund requests can be approved", domain.ErrInvalidTransition)
	}
	if o.RefundReason == "" {
		return fmt.Errorf("%w: no refund request found", domain.ErrInvalidTransition)
	}
	o.Status = StatusRefunded
	o.RefundAmount = &amount
	o.Record(NewOrderRefunded(o.ID, o.UserID, o.CourseIDs(), o.RefundReason, amount))
	return nil
}

// RejectRefund clears the refund reason. The status stays refund_requested
// and no event is queued; a second RequestRefund is needed to retry.
func (o *Order) RejectRefund() error {
	if o.Status != StatusRefundRequested {
		return fmt.Errorf("%w: no active refund request to reject", domain.ErrInvalidTransition)
	}
	if o.RefundReason == "" {
		return fmt.Errorf("%w: no refund request found", domain.ErrInvalidTransition)
	}
	o.RefundReason = ""
	o.Touch()
	return nil
}
