// internal/app/access.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learnhub/internal/domain"
	"learnhub/internal/domain/access"
	"learnhub/internal/domain/course"
	"learnhub/internal/eventbus"
	"learnhub/internal/eventlog"
	"learnhub/internal/repository"
	"learnhub/internal/service"
)

type GrantAccessCommand struct {
	UserID       string
	CourseID     string
	OrderID      string
	AccessType   string
	ValidityDays int
}

type UpdateProgressCommand struct {
	AccessID string
	Progress float64
}

type RecordActivityCommand struct {
	AccessID string
	Type     string
	Detail   string
}

// AccessService handles granting, revoking and progressing course access.
type AccessService struct {
	access    *repository.AccessRepository
	users     *repository.UserRepository
	courses   *repository.CourseRepository
	lifecycle *service.AccessLifecycleService
	log       *eventlog.Log
	bus       *eventbus.Bus
}

func NewAccessService(
	accessRepo *repository.AccessRepository,
	users *repository.UserRepository,
	courses *repository.CourseRepository,
	lifecycle *service.AccessLifecycleService,
	log *eventlog.Log,
	bus *eventbus.Bus,
) *AccessService {
	return &AccessService{
		access:    accessRepo,
		users:     users,
		courses:   courses,
		lifecycle: lifecycle,
		log:       log,
		bus:       bus,
	}
}

// GrantAccess creates a fresh access record. Granting twice for the same
// (user, course) pair fails with a conflict before any aggregate is touched.
func (s *AccessService) GrantAccess(ctx context.Context, cmd GrantAccessCommand) (Result, error) {
	u, err := s.users.ByID(domain.UserID(cmd.UserID))
	if err != nil {
		return Result{}, err
	}
	c, err := s.courses.ByID(domain.CourseID(cmd.CourseID))
	if err != nil {
		return Result{}, err
	}
	if _, err := s.access.ByUserAndCourse(u.ID, c.ID); err == nil {
		return Result{}, fmt.Errorf("%w: access already granted for user %s on course %s", domain.ErrConflict, u.ID, c.ID)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return Result{}, err
	}

	accessType, err := course.ParseAccessType(cmd.AccessType)
	if err != nil {
		return Result{}, err
	}
	now := time.Now().UTC()
	var expiresAt *time.Time
	if accessType == course.AccessLimited {
		if cmd.ValidityDays <= 0 {
			return Result{}, fmt.Errorf("%w: limited access requires positive validity days", domain.ErrValidation)
		}
		deadline := now.AddDate(0, 0, cmd.ValidityDays)
		expiresAt = &deadline
	}

	rec, err := access.Grant(u.ID, c.ID, domain.OrderID(cmd.OrderID), accessType, now, expiresAt)
	if err != nil {
		return Result{}, err
	}
	if err := s.access.Save(rec); err != nil {
		return Result{}, err
	}
	u.AddAccessRef(rec.ID)
	if err := s.users.Save(u); err != nil {
		return Result{}, err
	}
	publish(ctx, s.log, s.bus, rec)
	return Result{ID: string(rec.ID), Status: string(rec.Status), Message: "access granted"}, nil
}

// RevokeAccess withdraws an access record.
func (s *AccessService) RevokeAccess(ctx context.Context, accessID, reason string) (Result, error) {
	rec, err := s.access.ByID(domain.AccessID(accessID))
	if err != nil {
		return Result{}, err
	}
	if err := rec.Revoke(reason); err != nil {
		return Result{}, err
	}
	if err := s.access.Save(rec); err != nil {
		return Result{}, err
	}
	publish(ctx, s.log, s.bus, rec)
	return Result{ID: string(rec.ID), Status: string(rec.Status), Message: "access revoked"}, nil
}

// RefreshAccess reactivates an expired or revoked record and re-emits
// CourseAccessGranted so downstream projections pick the record back up.
func (s *AccessService) RefreshAccess(ctx context.Context, accessID string, newExpiration *time.Time) (Result, error) {
	rec, err := s.access.ByID(domain.AccessID(accessID))
	if err != nil {
		return Result{}, err
	}
	if err := rec.Reactivate(newExpiration); err != nil {
		return Result{}, err
	}
	if err := s.access.Save(rec); err != nil {
		return Result{}, err
	}
	publish(ctx, s.log, s.bus, rec)
	return Result{ID: string(rec.ID), Status: string(rec.Status), Message: "access refreshed"}, nil
}

// UpdateProgress advances progress and publishes the completion event when
// the course is finished.
func (s *AccessService) UpdateProgress(ctx context.Context, cmd UpdateProgressCommand) (Result, error) {
	rec, err := s.access.ByID(domain.AccessID(cmd.AccessID))
	if err != nil {
		return Result{}, err
	}
	if err := rec.UpdateProgress(cmd.Progress); err != nil {
		return Result{}, err
	}
	if err := s.access.Save(rec); err != nil {
		return Result{}, err
	}
	publish(ctx, s.log, s.bus, rec)
	return Result{ID: string(rec.ID), Status: string(rec.Status), Message: fmt.Sprintf("progress %.2f", rec.Progress.Value())}, nil
}

// RecordActivity appends an activity log entry to an active record.
func (s *AccessService) RecordActivity(ctx context.Context, cmd RecordActivityCommand) (Result, error) {
	rec, err := s.access.ByID(domain.AccessID(cmd.AccessID))
	if err != nil {
		return Result{}, err
	}
	if err := rec.RecordActivity(access.ActivityType(cmd.Type), cmd.Detail); err != nil {
		return Result{}, err
	}
	if err := s.access.Save(rec); err != nil {
		return Result{}, err
	}
	return Result{ID: string(rec.ID), Status: string(rec.Status), Message: "activity recorded"}, nil
}

// ExpireOverdue sweeps all active records past their expiry and publishes
// the resulting events. Returns how many records expired.
func (s *AccessService) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.lifecycle.ExpireAccessRecords(now)
	for _, rec := range expired {
		publish(ctx, s.log, s.bus, rec)
	}
	return len(expired), err
}
