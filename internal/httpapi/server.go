// internal/httpapi/server.go

// Package httpapi exposes the application services and read models over
// a JSON HTTP API.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"learnhub/internal/app"
	"learnhub/internal/readmodel"
)

// Server wires the command services and projections into an HTTP router.
type Server struct {
	users    *app.UserService
	courses  *app.CourseService
	policies *app.PolicyService
	orders   *app.OrderService
	access   *app.AccessService

	catalog    *readmodel.CourseCatalog
	history    *readmodel.OrderHistory
	userAccess *readmodel.UserAccess
	usage      *readmodel.PolicyUsage
	revenue    *readmodel.RevenueSummary

	limiter *rate.Limiter
}

func NewServer(
	users *app.UserService,
	courses *app.CourseService,
	policies *app.PolicyService,
	orders *app.OrderService,
	access *app.AccessService,
	catalog *readmodel.CourseCatalog,
	history *readmodel.OrderHistory,
	userAccess *readmodel.UserAccess,
	usage *readmodel.PolicyUsage,
	revenue *readmodel.RevenueSummary,
) *Server {
	return &Server{
		users:      users,
		courses:    courses,
		policies:   policies,
		orders:     orders,
		access:     access,
		catalog:    catalog,
		history:    history,
		userAccess: userAccess,
		usage:      usage,
		revenue:    revenue,
		limiter:    rate.NewLimiter(rate.Limit(100), 200),
	}
}

// Router builds the chi router with logging and rate limiting applied to
// every route.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(rateLimit(s.limiter))

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.handleRegisterUser)
		r.Post("/login", s.handleLogin)
		r.Post("/{id}/verify", s.handleVerifyUser)
		r.Put("/{id}/profile", s.handleUpdateProfile)
		r.Post("/{id}/email", s.handleChangeEmail)
		r.Get("/{id}/orders", s.handleUserOrders)
		r.Get("/{id}/access", s.handleUserAccess)
	})

	r.Route("/courses", func(r chi.Router) {
		r.Post("/", s.handleCreateCourse)
		r.Post("/{id}", s.handleUpdateCourse)
		r.Post("/{id}/policy", s.handleChangeCoursePolicy)
		r.Post("/{id}/deprecate", s.handleDeprecateCourse)
	})

	r.Route("/policies", func(r chi.Router) {
		r.Post("/", s.handleCreatePolicy)
		r.Post("/{id}", s.handleUpdatePolicy)
		r.Post("/{id}/deprecate", s.handleDeprecatePolicy)
		r.Post("/{id}/reactivate", s.handleReactivatePolicy)
		r.Get("/{id}/usage", s.handlePolicyUsage)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", s.handlePlaceOrder)
		r.Get("/{id}", s.handleGetOrder)
		r.Post("/{id}/pay", s.handlePayOrder)
		r.Post("/{id}/refund", s.handleRequestRefund)
		r.Post("/{id}/refund/approve", s.handleApproveRefund)
		r.Post("/{id}/refund/reject", s.handleRejectRefund)
		r.Post("/{id}/cancel", s.handleCancelOrder)
		r.Post("/{id}/fail", s.handleFailPayment)
	})

	r.Route("/access", func(r chi.Router) {
		r.Post("/", s.handleGrantAccess)
		r.Post("/expire", s.handleExpireOverdue)
		r.Post("/{id}/revoke", s.handleRevokeAccess)
		r.Post("/{id}/refresh", s.handleRefreshAccess)
		r.Post("/{id}/progress", s.handleUpdateProgress)
		r.Post("/{id}/activity", s.handleRecordActivity)
	})

	r.Get("/catalog", s.handleCatalog)
	r.Get("/catalog/{courseID}", s.handleCatalogCourse)
	r.Get("/revenue", s.handleRevenue)

	return r
}
