// internal/service/service_test.go
package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/internal/domain"
	"learnhub/internal/domain/access"
	"learnhub/internal/domain/course"
	"learnhub/internal/domain/order"
	"learnhub/internal/domain/policy"
	"learnhub/internal/repository"
)

type fixture struct {
	orders   *repository.OrderRepository
	access   *repository.AccessRepository
	courses  *repository.CourseRepository
	policies *repository.PolicyRepository

	processing  *OrderProcessingService
	eligibility *RefundEligibilityService
	lifecycle   *AccessLifecycleService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		orders:   repository.NewOrderRepository(),
		access:   repository.NewAccessRepository(),
		courses:  repository.NewCourseRepository(),
		policies: repository.NewPolicyRepository(),
	}
	f.processing = NewOrderProcessingService(f.orders, f.access, f.courses)
	f.eligibility = NewRefundEligibilityService(f.orders, f.access, f.courses, f.policies)
	f.lifecycle = NewAccessLifecycleService(f.access)
	return f
}

func (f *fixture) addPolicy(t *testing.T, name string, pt policy.Type, days int) *policy.RefundPolicy {
	t.Helper()
	period, err := domain.NewRefundPeriod(days)
	require.NoError(t, err)
	p := policy.Create(name, pt, period, "Conditions.")
	require.NoError(t, f.policies.Save(p))
	return p
}

func (f *fixture) addCourse(t *testing.T, title string, policyID domain.PolicyID, at course.AccessType) *course.Course {
	t.Helper()
	price, err := domain.NewMoney(40, "USD")
	require.NoError(t, err)
	c := course.Create(title, "Description.", price, at, policyID)
	require.NoError(t, f.courses.Save(c))
	return c
}

func (f *fixture) placeOrder(t *testing.T, userID domain.UserID, courses ...*course.Course) *order.Order {
	t.Helper()
	items := make([]order.Item, len(courses))
	for i, c := range courses {
		items[i] = order.Item{CourseID: c.ID, PriceSnapshot: c.Price, PolicyID: c.PolicyID}
	}
	o, err := order.Create(userID, items)
	require.NoError(t, err)
	require.NoError(t, f.orders.Save(o))
	return o
}

func (f *fixture) payOrder(t *testing.T, o *order.Order) []*access.AccessRecord {
	t.Helper()
	info, err := domain.NewPaymentInfo("pay-1", "card", "tx-1")
	require.NoError(t, err)
	_, records, err := f.processing.ProcessPayment(o.ID, info, nil)
	require.NoError(t, err)
	return records
}

func TestProcessPaymentGrantsAccessPerCourse(t *testing.T) {
	f := newFixture(t)
	p := f.addPolicy(t, "Standard", policy.TypeStandard, 30)
	c1 := f.addCourse(t, "Go Basics", p.ID, course.AccessUnlimited)
	c2 := f.addCourse(t, "Advanced Go", p.ID, course.AccessUnlimited)
	o := f.placeOrder(t, "user-1", c1, c2)

	records := f.payOrder(t, o)
	require.Len(t, records, 2)

	saved, err := f.orders.ByID(o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, saved.Status)

	for _, c := range []*course.Course{c1, c2} {
		rec, err := f.access.ByUserAndCourse("user-1", c.ID)
		require.NoError(t, err)
		assert.Equal(t, access.StatusActive, rec.Status)
		assert.Nil(t, rec.ExpiresAt)
	}
}

func TestProcessPaymentLimitedCourseGetsDefaultExpiry(t *testing.T) {
	f := newFixture(t)
	p := f.addPolicy(t, "Standard", policy.TypeStandard, 30)
	c := f.addCourse(t, "Go Basics", p.ID, course.AccessLimited)
	o := f.placeOrder(t, "user-1", c)

	records := f.payOrder(t, o)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, course.AccessLimited, rec.AccessType)
	require.NotNil(t, rec.ExpiresAt)
	assert.Equal(t, o.CreatedAt.AddDate(1, 0, 0), *rec.ExpiresAt)
}

func TestProcessPaymentReactivatesLapsedAccess(t *testing.T) {
	f := newFixture(t)
	p := f.addPolicy(t, "Standard", policy.TypeStandard, 30)
	c := f.addCourse(t, "Go Basics", p.ID, course.AccessUnlimited)

	first := f.placeOrder(t, "user-1", c)
	records := f.payOrder(t, first)
	require.NoError(t, records[0].Revoke("chargeback"))
	require.NoError(t, f.access.Save(records[0]))

	second := f.placeOrder(t, "user-1", c)
	info, _ := domain.NewPaymentInfo("pay-2", "card", "tx-2")
	_, again, err := f.processing.ProcessPayment(second.ID, info, nil)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, records[0].ID, again[0].ID, "existing record is reused")
	assert.Equal(t, access.StatusActive, again[0].Status)
}

func TestProcessRefundRevokesAccess(t *testing.T) {
	f := newFixture(t)
	p := f.addPolicy(t, "Standard", policy.TypeStandard, 30)
	c := f.addCourse(t, "Go Basics", p.ID, course.AccessUnlimited)
	o := f.placeOrder(t, "user-1", c)
	f.payOrder(t, o)

	saved, _ := f.orders.ByID(o.ID)
	require.NoError(t, saved.RequestRefund(order.ReasonNotSatisfied))
	require.NoError(t, f.orders.Save(saved))

	_, revoked, err := f.processing.ProcessRefund(o.ID, o.TotalAmount, "refund approved")
	require.NoError(t, err)
	require.Len(t, revoked, 1)
	assert.Equal(t, access.StatusRevoked, revoked[0].Status)

	refunded, _ := f.orders.ByID(o.ID)
	assert.Equal(t, order.StatusRefunded, refunded.Status)
}

func TestEvaluateAllEligible(t *testing.T) {
	f := newFixture(t)
	p := f.addPolicy(t, "Standard", policy.TypeStandard, 30)
	c1 := f.addCourse(t, "Go Basics", p.ID, course.AccessUnlimited)
	c2 := f.addCourse(t, "Advanced Go", p.ID, course.AccessUnlimited)
	o := f.placeOrder(t, "user-1", c1, c2)
	f.payOrder(t, o)

	ok, reason := f.eligibility.Evaluate(o.ID, time.Now().UTC())
	assert.True(t, ok)
	assert.Equal(t, "all courses eligible for refund", reason)
	assert.Len(t, f.eligibility.EligibleRecords(o.ID, time.Now().UTC()), 2)
}

func TestEvaluatePartialEligibility(t *testing.T) {
	f := newFixture(t)
	p := f.addPolicy(t, "Standard", policy.TypeStandard, 30)
	c1 := f.addCourse(t, "Go Basics", p.ID, course.AccessUnlimited)
	c2 := f.addCourse(t, "Advanced Go", p.ID, course.AccessUnlimited)
	o := f.placeOrder(t, "user-1", c1, c2)
	f.payOrder(t, o)

	// Completing one course makes it ineligible.
	rec, err := f.access.ByUserAndCourse("user-1", c1.ID)
	require.NoError(t, err)
	require.NoError(t, rec.UpdateProgress(100))
	require.NoError(t, f.access.Save(rec))

	ok, reason := f.eligibility.Evaluate(o.ID, time.Now().UTC())
	assert.True(t, ok)
	assert.Equal(t, "partial refund: 1/2 courses eligible", reason)
	assert.Len(t, f.eligibility.EligibleRecords(o.ID, time.Now().UTC()), 1)
}

func TestEvaluateRejections(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC()

	ok, reason := f.eligibility.Evaluate("ghost", now)
	assert.False(t, ok)
	assert.Equal(t, "order not found", reason)

	p := f.addPolicy(t, "None", policy.TypeNoRefund, 0)
	c := f.addCourse(t, "Go Basics", p.ID, course.AccessUnlimited)
	o := f.placeOrder(t, "user-1", c)

	ok, reason = f.eligibility.Evaluate(o.ID, now)
	assert.False(t, ok)
	assert.Equal(t, "order is not in paid status", reason)

	f.payOrder(t, o)
	ok, reason = f.eligibility.Evaluate(o.ID, now)
	assert.False(t, ok, "no_refund policy blocks everything")
	assert.True(t, strings.HasPrefix(reason, "no eligible courses:"), reason)
}

func TestExpireAccessRecordsSweep(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC()

	expiry := now.Add(time.Hour)
	due, err := access.Grant("user-1", "course-1", "order-1", course.AccessLimited, now, &expiry)
	require.NoError(t, err)
	require.NoError(t, f.access.Save(due))

	fresh, err := access.Grant("user-2", "course-1", "order-2", course.AccessUnlimited, now, nil)
	require.NoError(t, err)
	require.NoError(t, f.access.Save(fresh))

	expired, err := f.lifecycle.ExpireAccessRecords(now.Add(2 * time.Hour))
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, due.ID, expired[0].ID)
	assert.Equal(t, access.StatusExpired, expired[0].Status)

	// Unlimited access survives the sweep.
	got, err := f.access.ByID(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, access.StatusActive, got.Status)
}

func TestReactivateUserAccess(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC()

	expiry := now.Add(time.Hour)
	rec, err := access.Grant("user-1", "course-1", "order-1", course.AccessLimited, now, &expiry)
	require.NoError(t, err)
	require.NoError(t, f.access.Save(rec))
	rec.Expire(now.Add(2 * time.Hour))
	require.NoError(t, f.access.Save(rec))

	newExpiry := now.Add(48 * time.Hour)
	restored, err := f.lifecycle.ReactivateUserAccess("user-1", "course-1", &newExpiry)
	require.NoError(t, err)
	assert.Equal(t, access.StatusActive, restored.Status)

	_, err = f.lifecycle.ReactivateUserAccess("user-1", "course-9", nil)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestExpiredAccessForUser(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC()

	expiry := now.Add(time.Hour)
	lapsed, err := access.Grant("user-1", "course-1", "order-1", course.AccessLimited, now, &expiry)
	require.NoError(t, err)
	require.NoError(t, f.access.Save(lapsed))

	active, err := access.Grant("user-1", "course-2", "order-1", course.AccessUnlimited, now, nil)
	require.NoError(t, err)
	require.NoError(t, f.access.Save(active))

	// Not yet swept, but past expiry by the clock.
	got := f.lifecycle.ExpiredAccessForUser("user-1", now.Add(2*time.Hour))
	require.Len(t, got, 1)
	assert.Equal(t, lapsed.ID, got[0].ID)
}
