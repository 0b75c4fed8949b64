// internal/domain/access/events.go
package access

import (
	"time"

	"learnhub/internal/domain"
	"learnhub/internal/domain/course"
)

const (
	EventCourseAccessGranted = "CourseAccessGranted"
	EventAccessRevoked       = "AccessRevoked"
	EventAccessExpired       = "AccessExpired"
	EventProgressUpdated     = "ProgressUpdated"
	EventCourseCompleted     = "CourseCompleted"
)

// CourseAccessGranted signals a fresh or reactivated access record.
type CourseAccessGranted struct {
	domain.EventBase
	UserID     domain.UserID
	CourseID   domain.CourseID
	OrderID    domain.OrderID
	AccessType course.AccessType
	ExpiresAt  *time.Time
}

func NewCourseAccessGranted(id domain.AccessID, userID domain.UserID, courseID domain.CourseID, orderID domain.OrderID, accessType course.AccessType, expiresAt *time.Time) CourseAccessGranted {
	return CourseAccessGranted{
		EventBase:  domain.NewEventBase("AccessRecord", id.String()),
		UserID:     userID,
		CourseID:   courseID,
		OrderID:    orderID,
		AccessType: accessType,
		ExpiresAt:  expiresAt,
	}
}

func (e CourseAccessGranted) EventType() string { return EventCourseAccessGranted }

func (e CourseAccessGranted) Payload() map[string]any {
	p := e.BasePayload(EventCourseAccessGranted)
	p["user_id"] = string(e.UserID)
	p["course_id"] = string(e.CourseID)
	p["order_id"] = string(e.OrderID)
	p["access_type"] = string(e.AccessType)
	if e.ExpiresAt != nil {
		p["expires_at"] = e.ExpiresAt.Format(time.RFC3339Nano)
	} else {
		p["expires_at"] = nil
	}
	return p
}

// AccessRevoked signals withdrawn access.
type AccessRevoked struct {
	domain.EventBase
	UserID   domain.UserID
	CourseID domain.CourseID
	Reason   string
}

func NewAccessRevoked(id domain.AccessID, userID domain.UserID, courseID domain.CourseID, reason string) AccessRevoked {
	return AccessRevoked{
		EventBase: domain.NewEventBase("AccessRecord", id.String()),
		UserID:    userID,
		CourseID:  courseID,
		Reason:    reason,
	}
}

func (e AccessRevoked) EventType() string { return EventAccessRevoked }

func (e AccessRevoked) Payload() map[string]any {
	p := e.BasePayload(EventAccessRevoked)
	p["user_id"] = string(e.UserID)
	p["course_id"] = string(e.CourseID)
	p["reason"] = e.Reason
	return p
}

// AccessExpired signals access lapsing past its expiry.
type AccessExpired struct {
	domain.EventBase
	UserID   domain.UserID
	CourseID domain.CourseID
}

func NewAccessExpired(id domain.AccessID, userID domain.UserID, courseID domain.CourseID) AccessExpired {
	return AccessExpired{
		EventBase: domain.NewEventBase("AccessRecord", id.String()),
		UserID:    userID,
		CourseID:  courseID,
	}
}

func (e AccessExpired) EventType() string { return EventAccessExpired }

func (e AccessExpired) Payload() map[string]any {
	p := e.BasePayload(EventAccessExpired)
	p["user_id"] = string(e.UserID)
	p["course_id"] = string(e.CourseID)
	return p
}

// ProgressUpdated signals forward movement through a course.
type ProgressUpdated struct {
	domain.EventBase
	UserID      domain.UserID
	CourseID    domain.CourseID
	OldProgress float64
	NewProgress float64
}

func NewProgressUpdated(id domain.AccessID, userID domain.UserID, courseID domain.CourseID, oldProgress, newProgress float64) ProgressUpdated {
	return ProgressUpdated{
		EventBase:   domain.NewEventBase("AccessRecord", id.String()),
		UserID:      userID,
		CourseID:    courseID,
		OldProgress: oldProgress,
		NewProgress: newProgress,
	}
}

func (e ProgressUpdated) EventType() string { return EventProgressUpdated }

func (e ProgressUpdated) Payload() map[string]any {
	p := e.BasePayload(EventProgressUpdated)
	p["user_id"] = string(e.UserID)
	p["course_id"] = string(e.CourseID)
	p["old_progress"] = e.OldProgress
	p["new_progress"] = e.NewProgress
	return p
}

// CourseCompleted signals progress reaching one hundred percent.
type CourseCompleted struct {
	domain.EventBase
	UserID      domain.UserID
	CourseID    domain.CourseID
	CompletedAt time.Time
}

func NewCourseCompleted(id domain.AccessID, userID domain.UserID, courseID domain.CourseID, completedAt time.Time) CourseCompleted {
	return CourseCompleted{
		EventBase:   domain.NewEventBase("AccessRecord", id.String()),
		UserID:      userID,
		CourseID:    courseID,
		CompletedAt: completedAt,
	}
}

func (e CourseCompleted) EventType() string { return EventCourseCompleted }

func (e CourseCompleted) Payload() map[string]any {
	p := e.BasePayload(EventCourseCompleted)
	p["user_id"] = string(e.UserID)
	p["course_id"] = string(e.CourseID)
	p["completed_at"] = e.CompletedAt.Format(time.RFC3339Nano)
	return p
}
