// internal/httpapi/commands.go

package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"learnhub/internal/app"
)

func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Bio       string `json:"bio"`
		AvatarURL string `json:"avatar_url"`
	}
	if !decode(w, r, &req) {
		return
	}
	res, err := s.users.RegisterUser(r.Context(), app.RegisterUserCommand{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}
	u, err := s.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}
	// In a real application, you would return a JWT here.
	writeJSON(w, http.StatusOK, map[string]string{
		"id":    u.ID.String(),
		"email": u.Email.String(),
		"name":  u.Profile.FullName(),
	})
}

func (s *Server) handleVerifyUser(w http.ResponseWriter, r *http.Request) {
	res, err := s.users.VerifyUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Bio       string `json:"bio"`
		AvatarURL string `json:"avatar_url"`
	}
	if !decode(w, r, &req) {
		return
	}
	res, err := s.users.UpdateProfile(r.Context(), app.UpdateProfileCommand{
		UserID:    chi.URLParam(r, "id"),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleChangeEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &req) {
		return
	}
	res, err := s.users.ChangeEmail(r.Context(), app.ChangeEmailCommand{
		UserID:   chi.URLParam(r, "id"),
		NewEmail: req.Email,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Currency    string  `json:"currency"`
		AccessType  string  `json:"access_type"`
		PolicyID    string  `json:"policy_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	res, err := s.courses.CreateCourse(r.Context(), app.CreateCourseCommand{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		AccessType:  req.AccessType,
		PolicyID:    req.PolicyID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
	}
	if !decode(w, r, &req) {
		return
	}
	res, err := s.courses.UpdateCourse(r.Context(), app.UpdateCourseCommand{
		CourseID:    chi.URLParam(r, "id"),
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleChangeCoursePolicy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PolicyID string `json:"policy_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	res, err := s.courses.ChangeCoursePolicy(r.Context(), app.ChangeCoursePolicyCommand{
		CourseID: chi.URLParam(r, "id"),
		PolicyID: req.PolicyID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDeprecateCourse(w http.ResponseWriter, r *http.Request) {
	res, err := s.courses.DeprecateCourse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCreatePolicy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		PolicyType string `json:"policy_type"`
		RefundDays int    `json:"refund_days"`
		Conditions string `json:"conditions"`
	}
	if !decode(w, r, &req) {
		return
	}
	res, err := s.policies.CreatePolicy(r.Context(), app.CreatePolicyCommand{
		Name:       req.Name,
		PolicyType: req.PolicyType,
		RefundDays: req.RefundDays,
		Conditions: req.Conditions,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleUpdatePolicy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefundDays int    `json:"refund_days"`
		Conditions string `json:"conditions"`
	}
	if !decode(w, r, &req) {
		return
	}
	res, err := s.policies.UpdatePolicy(r.Context(), app.UpdatePolicyCommand{
		PolicyID:   chi.URLParam(r, "id"),
		RefundDays: req.RefundDays,
		Conditions: req.Conditions,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDeprecatePolicy(w http.ResponseWriter, r *http.Request) {
	res, err := s.policies.DeprecatePolicy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleReactivatePolicy(w http.ResponseWriter, r *http.Request) {
	res, err := s.policies.ReactivatePolicy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    string   `json:"user_id"`
		CourseIDs []string `json:"course_ids"`
	}
	if !decode(w, r, &req) {
		return
	}
	res, err := s.orders.PlaceOrder(r.Context(), app.PlaceOrderCommand{
		UserID:    req.UserID,
		CourseIDs: req.CourseIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handlePayOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaymentID     string     `json:"payment_id"`
		Method        string     `json:"method"`
		TransactionID string     `json:"transaction_id"`
		AccessExpires *time.Time `json:"access_expires,omitempty"`
	}
	if !decode(w, r, &req) {
		return
	}
	res, err := s.orders.PayOrder(r.Context(), app.PayOrderCommand{
		OrderID:       chi.URLParam(r, "id"),
		PaymentID:     req.PaymentID,
		Method:        req.Method,
		TransactionID: req.TransactionID,
		AccessExpires: req.AccessExpires,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRequestRefund(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if !decode(w, r, &req) {
		return
	}
	res, err := s.orders.RequestRefund(r.Context(), app.RequestRefundCommand{
		OrderID: chi.URLParam(r, "id"),
		Reason:  req.Reason,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleApproveRefund(w http.ResponseWriter, r *http.Request) {
	res, err := s.orders.ApproveRefund(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRejectRefund(w http.ResponseWriter, r *http.Request) {
	res, err := s.orders.RejectRefund(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if !decode(w, r, &req) {
		return
	}
	res, err := s.orders.CancelOrder(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleFailPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if !decode(w, r, &req) {
		return
	}
	res, err := s.orders.FailPayment(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGrantAccess(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID       string `json:"user_id"`
		CourseID     string `json:"course_id"`
		OrderID      string `json:"order_id"`
		AccessType   string `json:"access_type"`
		ValidityDays int    `json:"validity_days"`
	}
	if !decode(w, r, &req) {
		return
	}
	res, err := s.access.GrantAccess(r.Context(), app.GrantAccessCommand{
		UserID:       req.UserID,
		CourseID:     req.CourseID,
		OrderID:      req.OrderID,
		AccessType:   req.AccessType,
		ValidityDays: req.ValidityDays,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleRevokeAccess(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if !decode(w, r, &req) {
		return
	}
	res, err := s.access.RevokeAccess(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRefreshAccess(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewExpiration *time.Time `json:"new_expiration,omitempty"`
	}
	if !decode(w, r, &req) {
		return
	}
	res, err := s.access.RefreshAccess(r.Context(), chi.URLParam(r, "id"), req.NewExpiration)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Progress float64 `json:"progress"`
	}
	if !decode(w, r, &req) {
		return
	}
	res, err := s.access.UpdateProgress(r.Context(), app.UpdateProgressCommand{
		AccessID: chi.URLParam(r, "id"),
		Progress: req.Progress,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRecordActivity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type   string `json:"type"`
		Detail string `json:"detail"`
	}
	if !decode(w, r, &req) {
		return
	}
	res, err := s.access.RecordActivity(r.Context(), app.RecordActivityCommand{
		AccessID: chi.URLParam(r, "id"),
		Type:     req.Type,
		Detail:   req.Detail,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleExpireOverdue(w http.ResponseWriter, r *http.Request) {
	expired, err := s.access.ExpireOverdue(r.Context(), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"expired": expired})
}
