// internal/domain/order/order_test.go
package order

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/internal/domain"
)

func usd(t *testing.T, amount float64) domain.Money {
	t.Helper()
	m, err := domain.NewMoney(amount, "USD")
	require.NoError(t, err)
	return m
}

func testOrder(t *testing.T) *Order {
	t.Helper()
	o, err := Create("user-1", []Item{
		{CourseID: "course-1", PriceSnapshot: usd(t, 50), PolicyID: "pol-1"},
		{CourseID: "course-2", PriceSnapshot: usd(t, 30), PolicyID: "pol-1"},
	})
	require.NoError(t, err)
	return o
}

func payment(t *testing.T) domain.PaymentInfo {
	t.Helper()
	info, err := domain.NewPaymentInfo("pay-1", "card", "tx-1")
	require.NoError(t, err)
	return info
}

func TestCreateComputesTotal(t *testing.T) {
	o := testOrder(t)

	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, 80.0, o.TotalAmount.Amount)
	assert.Equal(t, []domain.CourseID{"course-1", "course-2"}, o.CourseIDs())

	events := o.PendingEvents()
	require.Len(t, events, 1)
	placed := events[0].(OrderPlaced)
	assert.Equal(t, "Order", placed.AggregateType())
	assert.Equal(t, 80.0, placed.TotalAmount.Amount)
}

func TestCreateRejectsBadItemSets(t *testing.T) {
	_, err := Create("user-1", nil)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = Create("user-1", []Item{
		{CourseID: "course-1", PriceSnapshot: usd(t, 50)},
		{CourseID: "course-1", PriceSnapshot: usd(t, 50)},
	})
	assert.True(t, errors.Is(err, domain.ErrValidation), "duplicate course")

	eur, _ := domain.NewMoney(30, "EUR")
	_, err = Create("user-1", []Item{
		{CourseID: "course-1", PriceSnapshot: usd(t, 50)},
		{CourseID: "course-2", PriceSnapshot: eur},
	})
	assert.True(t, errors.Is(err, domain.ErrValidation), "mixed currencies")
}

func TestAddRemoveItemOnlyWhilePending(t *testing.T) {
	o := testOrder(t)

	require.NoError(t, o.AddItem(Item{CourseID: "course-3", PriceSnapshot: usd(t, 20)}))
	assert.Equal(t, 100.0, o.TotalAmount.Amount)

	err := o.AddItem(Item{CourseID: "course-3", PriceSnapshot: usd(t, 20)})
	assert.True(t, errors.Is(err, domain.ErrConflict))

	require.NoError(t, o.RemoveItem("course-3"))
	assert.Equal(t, 80.0, o.TotalAmount.Amount)

	err = o.RemoveItem("course-9")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, o.ConfirmPayment(payment(t)))
	err = o.AddItem(Item{CourseID: "course-4", PriceSnapshot: usd(t, 10)})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	err = o.RemoveItem("course-1")
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestPaymentTransitions(t *testing.T) {
	o := testOrder(t)
	o.ClearEvents()

	require.NoError(t, o.ConfirmPayment(payment(t)))
	assert.Equal(t, StatusPaid, o.Status)
	require.NotNil(t, o.PaymentInfo)

	events := o.PendingEvents()
	require.Len(t, events, 1)
	paid := events[0].(OrderPaid)
	assert.Equal(t, "pay-1", paid.PaymentID)

	err := o.ConfirmPayment(payment(t))
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestCancelAndFailOnlyWhilePending(t *testing.T) {
	o := testOrder(t)
	require.NoError(t, o.Cancel("changed my mind"))
	assert.Equal(t, StatusCancelled, o.Status)
	assert.Equal(t, "changed my mind", o.CancellationReason)

	o2 := testOrder(t)
	require.NoError(t, o2.MarkPaymentFailed("card declined"))
	assert.Equal(t, StatusFailed, o2.Status)

	assert.True(t, errors.Is(o2.Cancel("late"), domain.ErrInvalidTransition))
	assert.True(t, errors.Is(o.MarkPaymentFailed("late"), domain.ErrInvalidTransition))
}

func TestRefundFlow(t *testing.T) {
	o := testOrder(t)

	err := o.RequestRefund(ReasonNotSatisfied)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition), "pending orders cannot be refunded")

	require.NoError(t, o.ConfirmPayment(payment(t)))
	assert.True(t, o.CanBeRefunded())
	o.ClearEvents()

	require.NoError(t, o.RequestRefund(ReasonNotSatisfied))
	assert.Equal(t, StatusRefundRequested, o.Status)
	assert.Equal(t, ReasonNotSatisfied, o.RefundReason)

	require.NoError(t, o.ApproveRefund(o.TotalAmount))
	assert.Equal(t, StatusRefunded, o.Status)
	require.NotNil(t, o.RefundAmount)
	assert.Equal(t, 80.0, o.RefundAmount.Amount)

	events := o.PendingEvents()
	require.Len(t, events, 2)
	refunded := events[1].(OrderRefunded)
	assert.Equal(t, ReasonNotSatisfied, refunded.Reason)
}

func TestRejectRefundClearsReasonOnly(t *testing.T) {
	o := testOrder(t)
	require.NoError(t, o.ConfirmPayment(payment(t)))
	require.NoError(t, o.RequestRefund(ReasonChangedMind))
	o.ClearEvents()

	require.NoError(t, o.RejectRefund())
	assert.Equal(t, StatusRefundRequested, o.Status, "status does not move on rejection")
	assert.Empty(t, string(o.RefundReason))
	assert.Empty(t, o.PendingEvents())

	// Approval is now blocked until a new request arrives.
	err := o.ApproveRefund(o.TotalAmount)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	err = o.RejectRefund()
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestParseRefundReason(t *testing.T) {
	for _, v := range []string{"not_satisfied", "technical_issues", "changed_mind", "duplicate_purchase", "other"} {
		_, err := ParseRefundReason(v)
		assert.NoError(t, err)
	}
	_, err := ParseRefundReason("because")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
