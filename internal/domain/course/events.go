// internal/domain/course/events.go
package course

import "learnhub/internal/domain"

// Event type tags for the course aggregate.
const (
	EventCourseCreated       = "CourseCreated"
	EventCourseUpdated       = "CourseUpdated"
	EventCoursePolicyChanged = "CoursePolicyChanged"
	EventCourseDeprecated    = "CourseDeprecated"
)

// CourseCreated is queued when a course is created.
type CourseCreated struct {
	domain.EventBase
	CourseID domain.CourseID
	Title    string
	PolicyID domain.PolicyID
}

func NewCourseCreated(id domain.CourseID, title string, policyID domain.PolicyID) CourseCreated {
	return CourseCreated{
		EventBase: domain.NewEventBase("Course", id.String()),
		CourseID:  id,
		Title:     title,
		PolicyID:  policyID,
	}
}

func (e CourseCreated) EventType() string { return EventCourseCreated }

func (e CourseCreated) Payload() map[string]any {
	p := e.BasePayload(EventCourseCreated)
	p["course_id"] = e.CourseID.String()
	p["title"] = e.Title
	p["policy_id"] = e.PolicyID.String()
	return p
}

// CourseUpdated is queued when title or description change.
type CourseUpdated struct {
	domain.EventBase
	CourseID    domain.CourseID
	Title       string
	Description string
}

func NewCourseUpdated(id domain.CourseID, title, description string) CourseUpdated {
	return CourseUpdated{
		EventBase:   domain.NewEventBase("Course", id.String()),
		CourseID:    id,
		Title:       title,
		Description: description,
	}
}

func (e CourseUpdated) EventType() string { return EventCourseUpdated }

func (e CourseUpdated) Payload() map[string]any {
	p := e.BasePayload(EventCourseUpdated)
	p["course_id"] = e.CourseID.String()
	p["title"] = e.Title
	p["description"] = e.Description
	return p
}

// CoursePolicyChanged is queued when the refund policy reference changes.
type CoursePolicyChanged struct {
	domain.EventBase
	CourseID    domain.CourseID
	OldPolicyID domain.PolicyID
	NewPolicyID domain.PolicyID
}

func NewCoursePolicyChanged(id domain.CourseID, oldPolicy, newPolicy domain.PolicyID) CoursePolicyChanged {
	return CoursePolicyChanged{
		EventBase:   domain.NewEventBase("Course", id.String()),
		CourseID:    id,
		OldPolicyID: oldPolicy,
		NewPolicyID: newPolicy,
	}
}

func (e CoursePolicyChanged) EventType() string { return EventCoursePolicyChanged }

func (e CoursePolicyChanged) Payload() map[string]any {
	p := e.BasePayload(EventCoursePolicyChanged)
	p["course_id"] = e.CourseID.String()
	p["old_policy_id"] = e.OldPolicyID.String()
	p["new_policy_id"] = e.NewPolicyID.String()
	return p
}

// CourseDeprecated is queued when a course is retired from the catalog.
type CourseDeprecated struct {
	domain.EventBase
	CourseID domain.CourseID
	Title    string
}

func NewCourseDeprecated(id domain.CourseID, title string) CourseDeprecated {
	return CourseDeprecated{
		EventBase: domain.NewEventBase("Course", id.String()),
		CourseID:  id,
		Title:     title,
	}
}

func (e CourseDeprecated) EventType() string { return EventCourseDeprecated }

func (e CourseDeprecated) Payload() map[string]any {
	p := e.BasePayload(EventCourseDeprecated)
	p["course_id"] = e.CourseID.String()
	p["title"] = e.Title
	return p
}
