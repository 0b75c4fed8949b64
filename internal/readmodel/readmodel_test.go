// internal/readmodel/readmodel_test.go
package readmodel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/internal/domain"
	"learnhub/internal/domain/access"
	"learnhub/internal/domain/course"
	"learnhub/internal/domain/order"
	"learnhub/internal/domain/policy"
	"learnhub/internal/eventlog"
)

func usd(t *testing.T, amount float64) domain.Money {
	t.Helper()
	m, err := domain.NewMoney(amount, "USD")
	require.NoError(t, err)
	return m
}

func apply(t *testing.T, p Projection, events ...domain.Event) {
	t.Helper()
	for _, ev := range events {
		require.NoError(t, p.Handle(context.Background(), ev))
	}
}

func TestCourseCatalog(t *testing.T) {
	p := NewCourseCatalog()
	courseID := domain.CourseID(domain.NextID())
	policyID := domain.PolicyID(domain.NextID())

	apply(t, p,
		course.NewCourseCreated(courseID, "Go Basics", policyID),
		course.NewCourseUpdated(courseID, "Go Fundamentals", "From zero to interfaces."),
		policy.NewPolicyUpdated(policyID, "Standard", policy.TypeStandard, 30, "Conditions.", ""),
	)

	entry, ok := p.Course(courseID.String())
	require.True(t, ok)
	assert.Equal(t, "Go Fundamentals", entry.Title)
	assert.Equal(t, "From zero to interfaces.", entry.Description)
	assert.Equal(t, "active", entry.Status)
	assert.Equal(t, policyID.String(), entry.Policy.PolicyID)
	assert.Equal(t, string(policy.TypeStandard), entry.Policy.Type)
	assert.Equal(t, 30, entry.Policy.RefundPeriodDays)

	// Switching policy wipes the stale metadata until the next update.
	newPolicy := domain.PolicyID(domain.NextID())
	apply(t, p, course.NewCoursePolicyChanged(courseID, policyID, newPolicy))
	entry, _ = p.Course(courseID.String())
	assert.Equal(t, newPolicy.String(), entry.Policy.PolicyID)
	assert.Empty(t, entry.Policy.Type)
	assert.Zero(t, entry.Policy.RefundPeriodDays)

	apply(t, p, policy.NewPolicyDeprecated(newPolicy, "Legacy"))
	entry, _ = p.Course(courseID.String())
	assert.Equal(t, "deprecated", entry.Status)

	apply(t, p, policy.NewPolicyReactivated(newPolicy, "Legacy"))
	entry, _ = p.Course(courseID.String())
	assert.Equal(t, "active", entry.Status)

	apply(t, p, course.NewCourseDeprecated(courseID, "Go Fundamentals"))
	entry, _ = p.Course(courseID.String())
	assert.Equal(t, "deprecated", entry.Status)

	assert.Len(t, p.All(), 1)
	_, ok = p.Course("missing")
	assert.False(t, ok)
}

func TestOrderHistoryLifecycle(t *testing.T) {
	p := NewOrderHistory()
	orderID := domain.OrderID(domain.NextID())
	userID := domain.UserID(domain.NextID())
	courses := []domain.CourseID{domain.CourseID(domain.NextID()), domain.CourseID(domain.NextID())}

	apply(t, p,
		order.NewOrderPlaced(orderID, userID, courses, usd(t, 80)),
		order.NewOrderPaid(orderID, userID, courses, "pay-1", usd(t, 80)),
		order.NewOrderRefundRequested(orderID, userID, courses, order.ReasonNotSatisfied),
		order.NewOrderRefunded(orderID, userID, courses, order.ReasonNotSatisfied, usd(t, 80)),
	)

	entry, ok := p.Order(orderID.String())
	require.True(t, ok)
	assert.Equal(t, "REFUNDED", entry.Status)
	assert.Equal(t, userID.String(), entry.UserID)
	assert.Equal(t, 80.0, entry.TotalAmount)
	assert.Equal(t, "pay-1", entry.PaymentID)
	assert.Equal(t, string(order.ReasonNotSatisfied), entry.RefundReason)
	assert.Equal(t, 80.0, entry.RefundAmount)
	require.Len(t, entry.Timeline, 4)
	assert.Equal(t, order.EventOrderPlaced, entry.Timeline[0].EventType)
	assert.Equal(t, order.EventOrderRefunded, entry.Timeline[3].EventType)

	history := p.OrdersForUser(userID.String())
	require.Len(t, history, 1)
	assert.Equal(t, orderID.String(), history[0].OrderID)
	assert.Empty(t, p.OrdersForUser("nobody"))
}

func TestOrderHistoryDuplicatePlaced(t *testing.T) {
	p := NewOrderHistory()
	orderID := domain.OrderID(domain.NextID())
	userID := domain.UserID(domain.NextID())
	courses := []domain.CourseID{domain.CourseID(domain.NextID())}

	placed := order.NewOrderPlaced(orderID, userID, courses, usd(t, 10))
	apply(t, p, placed, placed)

	// The duplicate replaces the by-id entry but leaves both user rows.
	entry, ok := p.Order(orderID.String())
	require.True(t, ok)
	require.Len(t, entry.Timeline, 1)
	assert.Len(t, p.OrdersForUser(userID.String()), 2)
}

func TestOrderHistoryIgnoresUnknownOrder(t *testing.T) {
	p := NewOrderHistory()
	orderID := domain.OrderID(domain.NextID())
	userID := domain.UserID(domain.NextID())
	courses := []domain.CourseID{domain.CourseID(domain.NextID())}

	apply(t, p, order.NewOrderPaid(orderID, userID, courses, "pay-1", usd(t, 10)))
	_, ok := p.Order(orderID.String())
	assert.False(t, ok)
}

func TestUserAccessProjection(t *testing.T) {
	p := NewUserAccess()
	userID := domain.UserID(domain.NextID())
	courseID := domain.CourseID(domain.NextID())
	accessID := domain.AccessID(domain.NextID())
	orderID := domain.OrderID(domain.NextID())
	expires := time.Now().UTC().AddDate(0, 0, 30)

	granted := access.NewCourseAccessGranted(accessID, userID, courseID, orderID, course.AccessLimited, &expires)
	apply(t, p, granted, granted)

	view := p.Access(userID.String())
	require.Len(t, view.Courses, 1, "same access id is deduplicated")
	assert.Equal(t, "active", view.Courses[0].Status)
	require.NotNil(t, view.Courses[0].ExpiresAt)

	apply(t, p,
		access.NewProgressUpdated(accessID, userID, courseID, 0, 42.5),
		access.NewCourseCompleted(accessID, userID, courseID, time.Now().UTC()),
	)
	view = p.Access(userID.String())
	assert.Equal(t, 100.0, view.Courses[0].Progress, "completion forces full progress")
	assert.Equal(t, "completed", view.Courses[0].Status)
	assert.False(t, view.LastActivity.IsZero())

	second := domain.AccessID(domain.NextID())
	otherCourse := domain.CourseID(domain.NextID())
	apply(t, p,
		access.NewCourseAccessGranted(second, userID, otherCourse, orderID, course.AccessUnlimited, nil),
		access.NewAccessRevoked(second, userID, otherCourse, "refund"),
	)
	view = p.Access(userID.String())
	require.Len(t, view.Courses, 2)
	assert.Equal(t, "revoked", view.Courses[1].Status)

	assert.Empty(t, p.Access("stranger").Courses)
}

func TestUserAccessExpired(t *testing.T) {
	p := NewUserAccess()
	userID := domain.UserID(domain.NextID())
	courseID := domain.CourseID(domain.NextID())
	accessID := domain.AccessID(domain.NextID())

	apply(t, p,
		access.NewCourseAccessGranted(accessID, userID, courseID, domain.OrderID(domain.NextID()), course.AccessLimited, nil),
		access.NewAccessExpired(accessID, userID, courseID),
	)
	view := p.Access(userID.String())
	require.Len(t, view.Courses, 1)
	assert.Equal(t, "expired", view.Courses[0].Status)
}

func TestUserAccessRegrantKeepsRecordedStatus(t *testing.T) {
	p := NewUserAccess()
	userID := domain.UserID(domain.NextID())
	courseID := domain.CourseID(domain.NextID())
	accessID := domain.AccessID(domain.NextID())
	orderID := domain.OrderID(domain.NextID())

	grant := access.NewCourseAccessGranted(accessID, userID, courseID, orderID, course.AccessUnlimited, nil)
	apply(t, p,
		grant,
		access.NewAccessRevoked(accessID, userID, courseID, "refund"),
		// A refreshed record re-emits the grant; the dedup by access id
		// keeps the recorded status rather than flipping it back.
		grant,
	)
	view := p.Access(userID.String())
	require.Len(t, view.Courses, 1)
	assert.Equal(t, "revoked", view.Courses[0].Status)
}

func TestPolicyUsageAdoption(t *testing.T) {
	p := NewPolicyUsage()
	standard := domain.PolicyID(domain.NextID())
	strict := domain.PolicyID(domain.NextID())
	c1 := domain.CourseID(domain.NextID())
	c2 := domain.CourseID(domain.NextID())

	apply(t, p,
		policy.NewPolicyCreated(standard, "Standard", policy.TypeStandard, 30),
		policy.NewPolicyCreated(strict, "Strict", policy.TypeNoRefund, 0),
		course.NewCoursePolicyChanged(c1, "", standard),
		course.NewCoursePolicyChanged(c2, "", standard),
	)

	entry, ok := p.Policy(standard.String())
	require.True(t, ok)
	assert.Equal(t, 2, entry.AdoptionCount)
	assert.ElementsMatch(t, []string{c1.String(), c2.String()}, entry.CoursesUsing)

	// Moving a course shrinks the old policy and grows the new one.
	apply(t, p, course.NewCoursePolicyChanged(c2, standard, strict))
	entry, _ = p.Policy(standard.String())
	assert.Equal(t, 1, entry.AdoptionCount)
	entry, _ = p.Policy(strict.String())
	assert.Equal(t, 1, entry.AdoptionCount)

	got, ok := p.PolicyForCourse(c2.String())
	require.True(t, ok)
	assert.Equal(t, strict.String(), got)

	apply(t, p, policy.NewPolicyDeprecated(standard, "Standard"))
	entry, _ = p.Policy(standard.String())
	assert.Equal(t, "deprecated", entry.Status)
	assert.Equal(t, 1, entry.AdoptionCount, "deprecation leaves adoption untouched")

	apply(t, p, policy.NewPolicyUpdated(standard, "Standard v2", policy.TypeExtended, 90, "New terms.", "active"))
	entry, _ = p.Policy(standard.String())
	assert.Equal(t, "Standard v2", entry.Name)
	assert.Equal(t, 90, entry.RefundPeriodDays)
	assert.Equal(t, "active", entry.Status)

	assert.Len(t, p.All(), 2)
}

func TestRevenueSummaryBuckets(t *testing.T) {
	p := NewRevenueSummary()
	userID := domain.UserID(domain.NextID())
	courses := []domain.CourseID{domain.CourseID(domain.NextID())}

	paid1 := order.NewOrderPaid(domain.OrderID(domain.NextID()), userID, courses, "pay-1", usd(t, 100))
	paid2 := order.NewOrderPaid(domain.OrderID(domain.NextID()), userID, courses, "pay-2", usd(t, 50))
	refund := order.NewOrderRefunded(domain.OrderID(domain.NextID()), userID, courses, order.ReasonNotSatisfied, usd(t, 25))
	apply(t, p, paid1, paid2, refund)

	totals := p.Totals()
	assert.Equal(t, 150.0, totals.Paid)
	assert.Equal(t, 25.0, totals.Refunded)
	assert.Equal(t, 125.0, totals.Net)
	assert.Equal(t, 2, totals.Orders)
	assert.Equal(t, 1, totals.Refunds)

	now := paid1.OccurredOn()
	day := p.ByDay(DayKey(now))
	assert.Equal(t, 150.0, day.Paid)
	week := p.ByWeek(WeekKey(now))
	assert.Equal(t, 125.0, week.Net)
	month := p.ByMonth(MonthKey(now))
	assert.Equal(t, 2, month.Orders)

	assert.Zero(t, p.ByDay("1999-01-01"))
}

func TestRebuildFromEventLog(t *testing.T) {
	log := eventlog.New()
	orderID := domain.OrderID(domain.NextID())
	userID := domain.UserID(domain.NextID())
	courses := []domain.CourseID{domain.CourseID(domain.NextID())}

	events := []domain.Event{
		order.NewOrderPlaced(orderID, userID, courses, usd(t, 60)),
		order.NewOrderPaid(orderID, userID, courses, "pay-1", usd(t, 60)),
	}
	log.Append(context.Background(), events...)

	live := NewOrderHistory()
	apply(t, live, events...)

	rebuilt := NewOrderHistory()
	rebuilt.Rebuild(log)

	want, ok := live.Order(orderID.String())
	require.True(t, ok)
	got, ok := rebuilt.Order(orderID.String())
	require.True(t, ok)
	assert.Equal(t, want, got)

	// Rebuild resets state accumulated before the replay.
	stale := NewOrderHistory()
	apply(t, stale, order.NewOrderPlaced(domain.OrderID(domain.NextID()), userID, courses, usd(t, 5)))
	stale.Rebuild(log)
	assert.Len(t, stale.OrdersForUser(userID.String()), 1)

	revenue := NewRevenueSummary()
	revenue.Rebuild(log)
	assert.Equal(t, 60.0, revenue.Totals().Paid)
}
