// internal/app/user.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"learnhub/internal/domain"
	"learnhub/internal/domain/user"
	"learnhub/internal/eventbus"
	"learnhub/internal/eventlog"
	"learnhub/internal/repository"
)

type RegisterUserCommand struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Bio       string
	AvatarURL string
}

type UpdateProfileCommand struct {
	UserID    string
	FirstName string
	LastName  string
	Bio       string
	AvatarURL string
}

type ChangeEmailCommand struct {
	UserID   string
	NewEmail string
}

// UserService handles registration, identity verification and profile
// maintenance. Registration is rate limited.
type UserService struct {
	users   *repository.UserRepository
	log     *eventlog.Log
	bus     *eventbus.Bus
	limiter *rate.Limiter
}

func NewUserService(users *repository.UserRepository, log *eventlog.Log, bus *eventbus.Bus) *UserService {
	return &UserService{
		users:   users,
		log:     log,
		bus:     bus,
		limiter: rate.NewLimiter(rate.Every(time.Minute), 20),
	}
}

// RegisterUser creates a new inactive user with a hashed credential.
func (s *UserService) RegisterUser(ctx context.Context, cmd RegisterUserCommand) (Result, error) {
	if !s.limiter.Allow() {
		return Result{}, fmt.Errorf("%w: registration rate limit exceeded", domain.ErrConflict)
	}

	email, err := domain.NewEmailAddress(cmd.Email)
	if err != nil {
		return Result{}, err
	}
	if len(cmd.Password) < 8 {
		return Result{}, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}
	profile, err := user.NewProfile(cmd.FirstName, cmd.LastName, cmd.Bio, cmd.AvatarURL)
	if err != nil {
		return Result{}, err
	}
	if _, err := s.users.ByEmail(email); err == nil {
		return Result{}, fmt.Errorf("%w: email %s already registered", domain.ErrConflict, email)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return Result{}, err
	}

	hash, err := hashPassword(cmd.Password)
	if err != nil {
		return Result{}, fmt.Errorf("hash password: %w", err)
	}

	u := user.Register(email, profile)
	u.PasswordHash = hash
	if err := s.users.Save(u); err != nil {
		return Result{}, err
	}
	publish(ctx, s.log, s.bus, u)

	return Result{ID: string(u.ID), Status: string(u.Status), Message: "user registered"}, nil
}

// Authenticate verifies the credential for an email and returns the user.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	addr, err := domain.NewEmailAddress(email)
	if err != nil {
		return nil, err
	}
	u, err := s.users.ByEmail(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrValidation)
	}
	ok, err := verifyPassword(password, u.PasswordHash)
	if err != nil || !ok {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrValidation)
	}
	return u, nil
}

// VerifyUser marks the user's email verified and activates the account.
func (s *UserService) VerifyUser(ctx context.Context, userID string) (Result, error) {
	u, err := s.users.ByID(domain.UserID(userID))
	if err != nil {
		return Result{}, err
	}
	if err := u.VerifyIdentity(); err != nil {
		return Result{}, err
	}
	if err := s.users.Save(u); err != nil {
		return Result{}, err
	}
	publish(ctx, s.log, s.bus, u)
	return Result{ID: string(u.ID), Status: string(u.Status), Message: "user verified"}, nil
}

// UpdateProfile replaces the user's profile.
func (s *UserService) UpdateProfile(ctx context.Context, cmd UpdateProfileCommand) (Result, error) {
	u, err := s.users.ByID(domain.UserID(cmd.UserID))
	if err != nil {
		return Result{}, err
	}
	profile, err := user.NewProfile(cmd.FirstName, cmd.LastName, cmd.Bio, cmd.AvatarURL)
	if err != nil {
		return Result{}, err
	}
	if err := u.UpdateProfile(profile); err != nil {
		return Result{}, err
	}
	if err := s.users.Save(u); err != nil {
		return Result{}, err
	}
	publish(ctx, s.log, s.bus, u)
	return Result{ID: string(u.ID), Status: string(u.Status), Message: "profile updated"}, nil
}

// ChangeEmail swaps the user's email, enforcing uniqueness first.
func (s *UserService) ChangeEmail(ctx context.Context, cmd ChangeEmailCommand) (Result, error) {
	u, err := s.users.ByID(domain.UserID(cmd.UserID))
	if err != nil {
		return Result{}, err
	}
	email, err := domain.NewEmailAddress(cmd.NewEmail)
	if err != nil {
		return Result{}, err
	}
	if other, err := s.users.ByEmail(email); err == nil && other.ID != u.ID {
		return Result{}, fmt.Errorf("%w: email %s already registered", domain.ErrConflict, email)
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return Result{}, err
	}
	if err := u.ChangeEmail(email); err != nil {
		return Result{}, err
	}
	if err := s.users.Save(u); err != nil {
		return Result{}, err
	}
	publish(ctx, s.log, s.bus, u)
	return Result{ID: string(u.ID), Status: string(u.Status), Message: "email changed"}, nil
}
