// internal/analytics/onboarding.go

package analytics

import (
	"context"
	"log"
	"sync"

	"learnhub/internal/domain"
	"learnhub/internal/domain/user"
)

// UserOnboarding reacts to account events. Registrations get a welcome
// log line, email changes a security notice. The counters exist so the
// send pipeline that replaces the log lines can be verified.
type UserOnboarding struct {
	mu              sync.Mutex
	welcomesSent    int
	securityNotices int
}

func NewUserOnboarding() *UserOnboarding { return &UserOnboarding{} }

func (h *UserOnboarding) Name() string { return "user-onboarding" }

func (h *UserOnboarding) EventTypes() []string {
	return []string{user.EventUserRegistered, user.EventUserEmailChanged}
}

func (h *UserOnboarding) Handle(_ context.Context, event domain.Event) error {
	switch e := event.(type) {
	case user.UserRegistered:
		log.Printf("onboarding: welcome %s <%s>", e.Name, e.Email.String())
		h.mu.Lock()
		h.welcomesSent++
		h.mu.Unlock()
	case user.UserEmailChanged:
		log.Printf("onboarding: security notice for user %s, email changed from %s to %s",
			e.UserID.String(), e.OldEmail.String(), e.NewEmail.String())
		h.mu.Lock()
		h.securityNotices++
		h.mu.Unlock()
	}
	return nil
}

func (h *UserOnboarding) WelcomesSent() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.welcomesSent
}

func (h *UserOnboarding) SecurityNotices() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.securityNotices
}
