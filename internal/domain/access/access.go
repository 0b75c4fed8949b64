// internal/domain/access/access.go
package access

import (
	"fmt"
	"time"

	"learnhub/internal/domain"
	"learnhub/internal/domain/course"
)

// Status is the access record lifecycle state.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusRevoked Status = "revoked"
)

// ActivityType classifies a learner action on a course.
type ActivityType string

const (
	ActivityLessonViewed        ActivityType = "lesson_viewed"
	ActivityQuizTaken           ActivityType = "quiz_taken"
	ActivityAssignmentSubmitted ActivityType = "assignment_submitted"
	ActivityNoteAdded           ActivityType = "note_added"
)

// ActivityRecord is one entry in the per-record activity log.
type ActivityRecord struct {
	Type       ActivityType
	OccurredAt time.Time
	Detail     string
}

// AccessRecord is the aggregate root tying a user to a purchased course. It
// tracks lifecycle, progress and a lightweight activity log.
type AccessRecord struct {
	domain.Entity

	ID          domain.AccessID
	UserID      domain.UserID
	CourseID    domain.CourseID
	OrderID     domain.OrderID
	Status      Status
	AccessType  course.AccessType
	PurchasedAt time.Time
	ExpiresAt   *time.Time
	Progress    domain.Progress
	CompletedAt *time.Time
	Activity    []ActivityRecord
}

// Grant creates an active record with zero progress and queues
// CourseAccessGranted. Limited access requires an expiry after the purchase
// time.
func Grant(userID domain.UserID, courseID domain.CourseID, orderID domain.OrderID, accessType course.AccessType, purchasedAt time.Time, expiresAt *time.Time) (*AccessRecord, error) {
	if accessType == course.AccessLimited {
		if expiresAt == nil {
			return nil, fmt.Errorf("%w: limited access requires an expiry", domain.ErrValidation)
		}
		if !expiresAt.After(purchasedAt) {
			return nil, fmt.Errorf("%w: expiry must be after purchase time", domain.ErrValidation)
		}
	}
	if accessType == course.AccessUnlimited {
		expiresAt = nil
	}

	id := domain.AccessID(domain.NextID())
	r := &AccessRecord{
		Entity:      domain.NewEntity(),
		ID:          id,
		UserID:      userID,
		CourseID:    courseID,
		OrderID:     orderID,
		Status:      StatusActive,
		AccessType:  accessType,
		PurchasedAt: purchasedAt,
		ExpiresAt:   expiresAt,
	}
	r.Record(NewCourseAccessGranted(id, userID, courseID, orderID, accessType, expiresAt))
	return r, nil
}

// IsActive reports whether the record grants access right now.
func (r *AccessRecord) IsActive(now time.Time) bool {
	if r.Status != StatusActive {
		return false
	}
	if r.ExpiresAt != nil && !now.Before(*r.ExpiresAt) {
		return false
	}
	return true
}

// Revoke withdraws access and queues AccessRevoked.
func (r *AccessRecord) Revoke(reason string) error {
	if r.Status == StatusRevoked {
		return fmt.Errorf("%w: access already revoked", domain.ErrInvalidTransition)
	}
	r.Status = StatusRevoked
	r.Record(NewAccessRevoked(r.ID, r.UserID, r.CourseID, reason))
	return nil
}

// Expire flips an active record past its expiry to expired and queues
// AccessExpired. Any other condition is a silent no-op so the lifecycle sweep
// can call it unconditionally.
func (r *AccessRecord) Expire(now time.Time) {
	if r.Status != StatusActive {
		return
	}
	if r.ExpiresAt == nil || now.Before(*r.ExpiresAt) {
		return
	}
	r.Status = StatusExpired
	r.Record(NewAccessExpired(r.ID, r.UserID, r.CourseID))
}

// Reactivate restores access from expired or revoked, optionally with a new
// expiry, and queues CourseAccessGranted again.
func (r *AccessRecord) Reactivate(expiresAt *time.Time) error {
	if r.Status != StatusExpired && r.Status != StatusRevoked {
		return fmt.Errorf("%w: can only reactivate expired or revoked access", domain.ErrInvalidTransition)
	}
	if expiresAt != nil && !expiresAt.After(time.Now().UTC()) {
		return fmt.Errorf("%w: new expiry must be in the future", domain.ErrValidation)
	}
	r.Status = StatusActive
	if expiresAt != nil {
		r.ExpiresAt = expiresAt
	}
	r.Record(NewCourseAccessGranted(r.ID, r.UserID, r.CourseID, r.OrderID, r.AccessType, r.ExpiresAt))
	return nil
}

// UpdateProgress advances progress on an active record. Progress never moves
// backwards. Reaching 100 from below queues ProgressUpdated followed by
// CourseCompleted.
func (r *AccessRecord) UpdateProgress(value float64) error {
	if r.Status != StatusActive {
		return fmt.Errorf("%w: progress only moves on active access", domain.ErrInvalidTransition)
	}
	next, err := domain.NewProgress(value)
	if err != nil {
		return err
	}
	if next.Less(r.Progress) {
		return fmt.Errorf("%w: progress cannot decrease from %.2f to %.2f", domain.ErrValidation, r.Progress.Value(), next.Value())
	}
	if next.Value() == r.Progress.Value() {
		return nil
	}
	wasComplete := r.Progress.Complete()
	old := r.Progress
	r.Progress = next
	r.Record(NewProgressUpdated(r.ID, r.UserID, r.CourseID, old.Value(), next.Value()))
	if next.Complete() && !wasComplete {
		now := time.Now().UTC()
		r.CompletedAt = &now
		r.Record(NewCourseCompleted(r.ID, r.UserID, r.CourseID, now))
	}
	return nil
}

// RecordActivity appends to the activity log. Only active records accumulate
// activity; no event is queued.
func (r *AccessRecord) RecordActivity(kind ActivityType, detail string) error {
	if r.Status != StatusActive {
		return fmt.Errorf("%w: activity only recorded on active access", domain.ErrInvalidTransition)
	}
	r.Activity = append(r.Activity, ActivityRecord{
		Type:       kind,
		OccurredAt: time.Now().UTC(),
		Detail:     detail,
	})
	r.Touch()
	return nil
}

// CanBeRefunded reports whether this record still qualifies for a refund on
// its own terms: active and not yet completed. Policy windows are checked by
// the refund eligibility service.
func (r *AccessRecord) CanBeRefunded() bool {
	return r.Status == StatusActive && !r.Progress.Complete()
}
