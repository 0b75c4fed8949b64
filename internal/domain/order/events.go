// internal/domain/order/events.go
package order

import "learnhub/internal/domain"

const (
	EventOrderPlaced          = "OrderPlaced"
	EventOrderPaid            = "OrderPaid"
	EventOrderRefundRequested = "OrderRefundRequested"
	EventOrderRefunded        = "OrderRefunded"
	EventOrderPaymentFailed   = "OrderPaymentFailed"
	EventOrderCancelled       = "OrderCancelled"
)

func courseIDStrings(ids []domain.CourseID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// OrderPlaced signals a new pending order.
type OrderPlaced struct {
	domain.EventBase
	UserID      domain.UserID
	CourseIDs   []domain.CourseID
	TotalAmount domain.Money
}

func NewOrderPlaced(id domain.OrderID, userID domain.UserID, courseIDs []domain.CourseID, total domain.Money) OrderPlaced {
	return OrderPlaced{
		EventBase:   domain.NewEventBase("Order", id.String()),
		UserID:      userID,
		CourseIDs:   courseIDs,
		TotalAmount: total,
	}
}

func (e OrderPlaced) EventType() string { return EventOrderPlaced }

func (e OrderPlaced) Payload() map[string]any {
	p := e.BasePayload(EventOrderPlaced)
	p["user_id"] = string(e.UserID)
	p["course_ids"] = courseIDStrings(e.CourseIDs)
	p["total_amount"] = e.TotalAmount.Amount
	p["currency"] = e.TotalAmount.Currency
	return p
}

// OrderPaid signals a confirmed payment.
type OrderPaid struct {
	domain.EventBase
	UserID    domain.UserID
	CourseIDs []domain.CourseID
	PaymentID string
	Amount    domain.Money
}

func NewOrderPaid(id domain.OrderID, userID domain.UserID, courseIDs []domain.CourseID, paymentID string, amount domain.Money) OrderPaid {
	return OrderPaid{
		EventBase: domain.NewEventBase("Order", id.String()),
		UserID:    userID,
		CourseIDs: courseIDs,
		PaymentID: paymentID,
		Amount:    amount,
	}
}

func (e OrderPaid) EventType() string { return EventOrderPaid }

func (e OrderPaid) Payload() map[string]any {
	p := e.BasePayload(EventOrderPaid)
	p["user_id"] = string(e.UserID)
	p["course_ids"] = courseIDStrings(e.CourseIDs)
	p["payment_id"] = e.PaymentID
	p["amount"] = e.Amount.Amount
	p["currency"] = e.Amount.Currency
	return p
}

// OrderRefundRequested signals the start of the refund flow.
type OrderRefundRequested struct {
	domain.EventBase
	UserID    domain.UserID
	CourseIDs []domain.CourseID
	Reason    RefundReason
}

func NewOrderRefundRequested(id domain.OrderID, userID domain.UserID, courseIDs []domain.CourseID, reason RefundReason) OrderRefundRequested {
	return OrderRefundRequested{
		EventBase: domain.NewEventBase("Order", id.String()),
		UserID:    userID,
		CourseIDs: courseIDs,
		Reason:    reason,
	}
}

func (e OrderRefundRequested) EventType() string { return EventOrderRefundRequested }

func (e OrderRefundRequested) Payload() map[string]any {
	p := e.BasePayload(EventOrderRefundRequested)
	p["user_id"] = string(e.UserID)
	p["course_ids"] = courseIDStrings(e.CourseIDs)
	p["reason"] = string(e.Reason)
	return p
}

// OrderRefunded signals an approved and completed refund.
type OrderRefunded struct {
	domain.EventBase
	UserID    domain.UserID
	CourseIDs []domain.CourseID
	Reason    RefundReason
	Amount    domain.Money
}

func NewOrderRefunded(id domain.OrderID, userID domain.UserID, courseIDs []domain.CourseID, reason RefundReason, amount domain.Money) OrderRefunded {
	return OrderRefunded{
		EventBase: domain.NewEventBase("Order", id.String()),
		UserID:    userID,
		CourseIDs: courseIDs,
		Reason:    reason,
		Amount:    amount,
	}
}

func (e OrderRefunded) EventType() string { return EventOrderRefunded }

func (e OrderRefunded) Payload() map[string]any {
	p := e.BasePayload(EventOrderRefunded)
	p["user_id"] = string(e.UserID)
	p["course_ids"] = courseIDStrings(e.CourseIDs)
	p["reason"] = string(e.Reason)
	p["amount"] = e.Amount.Amount
	p["currency"] = e.Amount.Currency
	return p
}

// OrderPaymentFailed signals a declined or errored payment attempt.
type OrderPaymentFailed struct {
	domain.EventBase
	UserID domain.UserID
	Reason string
}

func NewOrderPaymentFailed(id domain.OrderID, userID domain.UserID, reason string) OrderPaymentFailed {
	return OrderPaymentFailed{
		EventBase: domain.NewEventBase("Order", id.String()),
		UserID:    userID,
		Reason:    reason,
	}
}

func (e OrderPaymentFailed) EventType() string { return EventOrderPaymentFailed }

func (e OrderPaymentFailed) Payload() map[string]any {
	p := e.BasePayload(EventOrderPaymentFailed)
	p["user_id"] = string(e.UserID)
	p["reason"] = e.Reason
	return p
}

// OrderCancelled signals a buyer-initiated cancellation before payment.
type OrderCancelled struct {
	domain.EventBase
	UserID domain.UserID
}

func NewOrderCancelled(id domain.OrderID, userID domain.UserID) OrderCancelled {
	return OrderCancelled{
		EventBase: domain.NewEventBase("Order", id.String()),
		UserID:    userID,
	}
}

func (e OrderCancelled) EventType() string { return EventOrderCancelled }

func (e OrderCancelled) Payload() map[string]any {
	p := e.BasePayload(EventOrderCancelled)
	p["user_id"] = string(e.UserID)
	return p
}
