// internal/app/app_test.go
package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/internal/domain"
	"learnhub/internal/domain/access"
	"learnhub/internal/domain/order"
	"learnhub/internal/eventbus"
	"learnhub/internal/eventlog"
	"learnhub/internal/repository"
	"learnhub/internal/service"
)

type env struct {
	users    *repository.UserRepository
	courses  *repository.CourseRepository
	policies *repository.PolicyRepository
	orders   *repository.OrderRepository
	access   *repository.AccessRepository

	log *eventlog.Log
	bus *eventbus.Bus

	userSvc   *UserService
	courseSvc *CourseService
	policySvc *PolicyService
	orderSvc  *OrderService
	accessSvc *AccessService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		users:    repository.NewUserRepository(),
		courses:  repository.NewCourseRepository(),
		policies: repository.NewPolicyRepository(),
		orders:   repository.NewOrderRepository(),
		access:   repository.NewAccessRepository(),
		log:      eventlog.New(),
		bus:      eventbus.New(),
	}
	processing := service.NewOrderProcessingService(e.orders, e.access, e.courses)
	eligibility := service.NewRefundEligibilityService(e.orders, e.access, e.courses, e.policies)
	lifecycle := service.NewAccessLifecycleService(e.access)

	e.userSvc = NewUserService(e.users, e.log, e.bus)
	e.courseSvc = NewCourseService(e.courses, e.policies, e.log, e.bus)
	e.policySvc = NewPolicyService(e.policies, e.log, e.bus)
	e.orderSvc = NewOrderService(e.orders, e.users, e.courses, processing, eligibility, e.log, e.bus)
	e.accessSvc = NewAccessService(e.access, e.users, e.courses, lifecycle, e.log, e.bus)
	return e
}

func (e *env) registerVerifiedUser(t *testing.T, email string) string {
	t.Helper()
	res, err := e.userSvc.RegisterUser(context.Background(), RegisterUserCommand{
		Email:     email,
		Password:  "correct-horse",
		FirstName: "Test",
		LastName:  "User",
	})
	require.NoError(t, err)
	_, err = e.userSvc.VerifyUser(context.Background(), res.ID)
	require.NoError(t, err)
	return res.ID
}

func (e *env) createPolicy(t *testing.T, name, policyType string, days int) string {
	t.Helper()
	res, err := e.policySvc.CreatePolicy(context.Background(), CreatePolicyCommand{
		Name:       name,
		PolicyType: policyType,
		RefundDays: days,
		Conditions: "Standard conditions apply.",
	})
	require.NoError(t, err)
	return res.ID
}

func (e *env) createCourse(t *testing.T, title, policyID string) string {
	t.Helper()
	res, err := e.courseSvc.CreateCourse(context.Background(), CreateCourseCommand{
		Title:       title,
		Description: "A course description.",
		Price:       49.99,
		Currency:    "USD",
		AccessType:  "unlimited",
		PolicyID:    policyID,
	})
	require.NoError(t, err)
	return res.ID
}

func TestRegisterUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.userSvc.RegisterUser(ctx, RegisterUserCommand{
		Email: "alice@example.com", Password: "longenough", FirstName: "Alice", LastName: "Smith",
	})
	require.NoError(t, err)
	assert.Equal(t, "inactive", res.Status)
	assert.Equal(t, 1, e.log.Len(), "UserRegistered is logged")

	_, err = e.userSvc.RegisterUser(ctx, RegisterUserCommand{
		Email: "alice@example.com", Password: "longenough", FirstName: "Other", LastName: "Alice",
	})
	assert.True(t, errors.Is(err, domain.ErrConflict))

	_, err = e.userSvc.RegisterUser(ctx, RegisterUserCommand{
		Email: "bob@example.com", Password: "short", FirstName: "Bob", LastName: "Jones",
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = e.userSvc.RegisterUser(ctx, RegisterUserCommand{
		Email: "not-an-email", Password: "longenough", FirstName: "Bob", LastName: "Jones",
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestAuthenticate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.registerVerifiedUser(t, "alice@example.com")

	u, err := e.userSvc.Authenticate(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email.String())

	_, err = e.userSvc.Authenticate(ctx, "alice@example.com", "wrong-horse")
	assert.Error(t, err)

	_, err = e.userSvc.Authenticate(ctx, "nobody@example.com", "correct-horse")
	assert.Error(t, err)
}

func TestChangeEmailGuardsUniqueness(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	aliceID := e.registerVerifiedUser(t, "alice@example.com")
	e.registerVerifiedUser(t, "bob@example.com")

	_, err := e.userSvc.ChangeEmail(ctx, ChangeEmailCommand{UserID: aliceID, NewEmail: "bob@example.com"})
	assert.True(t, errors.Is(err, domain.ErrConflict))

	_, err = e.userSvc.ChangeEmail(ctx, ChangeEmailCommand{UserID: aliceID, NewEmail: "alice@new.com"})
	require.NoError(t, err)

	u, err := e.users.ByID(domain.UserID(aliceID))
	require.NoError(t, err)
	assert.False(t, u.EmailVerified, "verification resets on change")
}

func TestCreateCoursePolicyGuards(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.courseSvc.CreateCourse(ctx, CreateCourseCommand{
		Title: "Go Basics", Description: "Desc.", Price: 10, Currency: "USD",
		AccessType: "unlimited", PolicyID: "ghost",
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	policyID := e.createPolicy(t, "Standard", "standard", 30)
	_, err = e.policySvc.DeprecatePolicy(ctx, policyID)
	require.NoError(t, err)

	_, err = e.courseSvc.CreateCourse(ctx, CreateCourseCommand{
		Title: "Go Basics", Description: "Desc.", Price: 10, Currency: "USD",
		AccessType: "unlimited", PolicyID: policyID,
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition), "deprecated policies are unassignable")

	_, err = e.policySvc.ReactivatePolicy(ctx, policyID)
	require.NoError(t, err)
	e.createCourse(t, "Go Basics", policyID)
}

func TestUpdateCourseKeepsCurrency(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	policyID := e.createPolicy(t, "Standard", "standard", 30)
	courseID := e.createCourse(t, "Go Basics", policyID)

	_, err := e.courseSvc.UpdateCourse(ctx, UpdateCourseCommand{
		CourseID: courseID, Title: "Go Fundamentals", Description: "Updated.", Price: 59.99,
	})
	require.NoError(t, err)

	c, err := e.courses.ByID(domain.CourseID(courseID))
	require.NoError(t, err)
	assert.Equal(t, "Go Fundamentals", c.Title)
	assert.Equal(t, 59.99, c.Price.Amount)
	assert.Equal(t, "USD", c.Price.Currency)
}

func TestPlaceOrderRequiresVerifiedUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	policyID := e.createPolicy(t, "Standard", "standard", 30)
	courseID := e.createCourse(t, "Go Basics", policyID)

	res, err := e.userSvc.RegisterUser(ctx, RegisterUserCommand{
		Email: "alice@example.com", Password: "longenough", FirstName: "Alice", LastName: "Smith",
	})
	require.NoError(t, err)

	_, err = e.orderSvc.PlaceOrder(ctx, PlaceOrderCommand{UserID: res.ID, CourseIDs: []string{courseID}})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition), "unverified users cannot order")

	_, err = e.userSvc.VerifyUser(ctx, res.ID)
	require.NoError(t, err)
	placed, err := e.orderSvc.PlaceOrder(ctx, PlaceOrderCommand{UserID: res.ID, CourseIDs: []string{courseID}})
	require.NoError(t, err)
	assert.Equal(t, "pending", placed.Status)
}

func TestPurchaseAndRefundFlow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := e.registerVerifiedUser(t, "alice@example.com")
	policyID := e.createPolicy(t, "Standard", "standard", 30)
	c1 := e.createCourse(t, "Go Basics", policyID)
	c2 := e.createCourse(t, "Advanced Go", policyID)

	placed, err := e.orderSvc.PlaceOrder(ctx, PlaceOrderCommand{UserID: userID, CourseIDs: []string{c1, c2}})
	require.NoError(t, err)

	paid, err := e.orderSvc.PayOrder(ctx, PayOrderCommand{
		OrderID: placed.ID, PaymentID: "pay-1", Method: "card", TransactionID: "tx-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)

	// Both courses got active access records.
	for _, courseID := range []string{c1, c2} {
		rec, err := e.access.ByUserAndCourse(domain.UserID(userID), domain.CourseID(courseID))
		require.NoError(t, err)
		assert.Equal(t, access.StatusActive, rec.Status)
	}

	// OrderPaid plus two CourseAccessGranted landed in the log.
	assert.Len(t, e.log.ByType(order.EventOrderPaid), 1)
	assert.Len(t, e.log.ByType(access.EventCourseAccessGranted), 2)

	requested, err := e.orderSvc.RequestRefund(ctx, RequestRefundCommand{OrderID: placed.ID, Reason: "not_satisfied"})
	require.NoError(t, err)
	assert.Equal(t, "refund_requested", requested.Status)
	assert.Equal(t, "all courses eligible for refund", requested.Message)

	approved, err := e.orderSvc.ApproveRefund(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, "refunded", approved.Status)

	// Access is gone again.
	for _, courseID := range []string{c1, c2} {
		rec, err := e.access.ByUserAndCourse(domain.UserID(userID), domain.CourseID(courseID))
		require.NoError(t, err)
		assert.Equal(t, access.StatusRevoked, rec.Status)
	}
	assert.Len(t, e.log.ByType(access.EventAccessRevoked), 2)
}

func TestRequestRefundEligibilityGate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := e.registerVerifiedUser(t, "alice@example.com")
	policyID := e.createPolicy(t, "No Refunds", "no_refund", 0)
	courseID := e.createCourse(t, "Go Basics", policyID)

	placed, err := e.orderSvc.PlaceOrder(ctx, PlaceOrderCommand{UserID: userID, CourseIDs: []string{courseID}})
	require.NoError(t, err)
	_, err = e.orderSvc.PayOrder(ctx, PayOrderCommand{
		OrderID: placed.ID, PaymentID: "pay-1", Method: "card", TransactionID: "tx-1",
	})
	require.NoError(t, err)

	_, err = e.orderSvc.RequestRefund(ctx, RequestRefundCommand{OrderID: placed.ID, Reason: "changed_mind"})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	_, err = e.orderSvc.RequestRefund(ctx, RequestRefundCommand{OrderID: placed.ID, Reason: "because"})
	assert.True(t, errors.Is(err, domain.ErrValidation), "reason must parse")
}

func TestRejectRefundPublishesNothing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := e.registerVerifiedUser(t, "alice@example.com")
	policyID := e.createPolicy(t, "Standard", "standard", 30)
	courseID := e.createCourse(t, "Go Basics", policyID)

	placed, err := e.orderSvc.PlaceOrder(ctx, PlaceOrderCommand{UserID: userID, CourseIDs: []string{courseID}})
	require.NoError(t, err)
	_, err = e.orderSvc.PayOrder(ctx, PayOrderCommand{
		OrderID: placed.ID, PaymentID: "pay-1", Method: "card", TransactionID: "tx-1",
	})
	require.NoError(t, err)
	_, err = e.orderSvc.RequestRefund(ctx, RequestRefundCommand{OrderID: placed.ID, Reason: "changed_mind"})
	require.NoError(t, err)

	before := e.log.Len()
	res, err := e.orderSvc.RejectRefund(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, "refund_requested", res.Status, "rejection does not move the status")
	assert.Equal(t, before, e.log.Len(), "rejection logs no event")

	// Approval is blocked until a fresh request.
	_, err = e.orderSvc.ApproveRefund(ctx, placed.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestCancelAndFailPayment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := e.registerVerifiedUser(t, "alice@example.com")
	policyID := e.createPolicy(t, "Standard", "standard", 30)
	courseID := e.createCourse(t, "Go Basics", policyID)

	placed, err := e.orderSvc.PlaceOrder(ctx, PlaceOrderCommand{UserID: userID, CourseIDs: []string{courseID}})
	require.NoError(t, err)
	cancelled, err := e.orderSvc.CancelOrder(ctx, placed.ID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)

	second, err := e.orderSvc.PlaceOrder(ctx, PlaceOrderCommand{UserID: userID, CourseIDs: []string{courseID}})
	require.NoError(t, err)
	failed, err := e.orderSvc.FailPayment(ctx, second.ID, "card declined")
	require.NoError(t, err)
	assert.Equal(t, "failed", failed.Status)
	assert.Len(t, e.log.ByType(order.EventOrderPaymentFailed), 1)
}

func TestGrantAccessDirectly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := e.registerVerifiedUser(t, "alice@example.com")
	policyID := e.createPolicy(t, "Standard", "standard", 30)
	courseID := e.createCourse(t, "Go Basics", policyID)

	res, err := e.accessSvc.GrantAccess(ctx, GrantAccessCommand{
		UserID: userID, CourseID: courseID, OrderID: "comp-1", AccessType: "limited", ValidityDays: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, "active", res.Status)

	rec, err := e.access.ByID(domain.AccessID(res.ID))
	require.NoError(t, err)
	require.NotNil(t, rec.ExpiresAt)

	u, err := e.users.ByID(domain.UserID(userID))
	require.NoError(t, err)
	assert.Contains(t, u.AccessRefs, rec.ID)

	_, err = e.accessSvc.GrantAccess(ctx, GrantAccessCommand{
		UserID: userID, CourseID: courseID, OrderID: "comp-2", AccessType: "unlimited",
	})
	assert.True(t, errors.Is(err, domain.ErrConflict), "one grant per pair")

	_, err = e.accessSvc.GrantAccess(ctx, GrantAccessCommand{
		UserID: userID, CourseID: "ghost", OrderID: "comp-3", AccessType: "unlimited",
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGrantAccessValidatesLimitedWindow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := e.registerVerifiedUser(t, "alice@example.com")
	policyID := e.createPolicy(t, "Standard", "standard", 30)
	courseID := e.createCourse(t, "Go Basics", policyID)

	_, err := e.accessSvc.GrantAccess(ctx, GrantAccessCommand{
		UserID: userID, CourseID: courseID, OrderID: "comp-1", AccessType: "limited", ValidityDays: 0,
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestProgressAndActivity(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := e.registerVerifiedUser(t, "alice@example.com")
	policyID := e.createPolicy(t, "Standard", "standard", 30)
	courseID := e.createCourse(t, "Go Basics", policyID)

	res, err := e.accessSvc.GrantAccess(ctx, GrantAccessCommand{
		UserID: userID, CourseID: courseID, OrderID: "comp-1", AccessType: "unlimited",
	})
	require.NoError(t, err)

	_, err = e.accessSvc.UpdateProgress(ctx, UpdateProgressCommand{AccessID: res.ID, Progress: 50})
	require.NoError(t, err)
	assert.Len(t, e.log.ByType(access.EventProgressUpdated), 1)

	before := e.log.Len()
	_, err = e.accessSvc.RecordActivity(ctx, RecordActivityCommand{
		AccessID: res.ID, Type: "lesson_viewed", Detail: "lesson 2",
	})
	require.NoError(t, err)
	assert.Equal(t, before, e.log.Len(), "activity is not an event")

	_, err = e.accessSvc.UpdateProgress(ctx, UpdateProgressCommand{AccessID: res.ID, Progress: 100})
	require.NoError(t, err)
	assert.Len(t, e.log.ByType(access.EventCourseCompleted), 1)
}

func TestExpireOverduePublishes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := e.registerVerifiedUser(t, "alice@example.com")
	policyID := e.createPolicy(t, "Standard", "standard", 30)
	courseID := e.createCourse(t, "Go Basics", policyID)

	_, err := e.accessSvc.GrantAccess(ctx, GrantAccessCommand{
		UserID: userID, CourseID: courseID, OrderID: "comp-1", AccessType: "limited", ValidityDays: 1,
	})
	require.NoError(t, err)

	count, err := e.accessSvc.ExpireOverdue(ctx, time.Now().UTC().AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, e.log.ByType(access.EventAccessExpired), 1)

	// Second sweep finds nothing.
	count, err = e.accessSvc.ExpireOverdue(ctx, time.Now().UTC().AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := hashPassword("hunter22")
	require.NoError(t, err)

	ok, err := verifyPassword("hunter22", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = verifyPassword("hunter23", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = verifyPassword("x", "not-a-hash")
	assert.Error(t, err)
}
