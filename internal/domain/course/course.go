// internal/domain/course/course.go
package course

import (
	"fmt"

	"learnhub/internal/domain"
)

// AccessType controls whether purchased access ever expires.
type AccessType string

const (
	AccessUnlimited AccessType = "unlimited"
	AccessLimited   AccessType = "limited"
)

// ParseAccessType maps the wire value onto an AccessType.
func ParseAccessType(value string) (AccessType, error) {
	switch AccessType(value) {
	case AccessUnlimited, AccessLimited:
		return AccessType(value), nil
	}
	return "", fmt.Errorf("%w: unknown access type %q", domain.ErrValidation, value)
}

// NewTitle validates a course title.
func NewTitle(value string) (string, error) {
	return domain.BoundedText("title", value, 200)
}

// NewDescription validates a course description.
func NewDescription(value string) (string, error) {
	return domain.BoundedText("description", value, 2000)
}

// Course is the aggregate root for course metadata and pricing. The currency
// is fixed at creation.
type Course struct {
	domain.Entity

	ID          domain.CourseID
	Title       string
	Description string
	Price       domain.Money
	AccessType  AccessType
	PolicyID    domain.PolicyID
}

// Create builds a new course and queues CourseCreated.
func Create(title, description string, price domain.Money, accessType AccessType, policyID domain.PolicyID) *Course {
	id := domain.CourseID(domain.NextID())
	c := &Course{
		Entity:      domain.NewEntity(),
		ID:          id,
		Title:       title,
		Description: description,
		Price:       price,
		AccessType:  accessType,
		PolicyID:    policyID,
	}
	c.Record(NewCourseCreated(id, title, policyID))
	return c
}

// UpdateDetails replaces title and description and queues CourseUpdated.
func (c *Course) UpdateDetails(title, description string) {
	c.Title = title
	c.Description = description
	c.Record(NewCourseUpdated(c.ID, title, description))
}

// AssignPolicy switches the refund policy. Assigning the current policy is a
// no-op.
func (c *Course) AssignPolicy(policyID domain.PolicyID) {
	if c.PolicyID == policyID {
		return
	}
	old := c.PolicyID
	c.PolicyID = policyID
	c.Record(NewCoursePolicyChanged(c.ID, old, policyID))
}

// SetAccessType switches between limited and unlimited access.
func (c *Course) SetAccessType(accessType AccessType) {
	c.AccessType = accessType
	c.Touch()
}

// ChangePrice updates the price; the currency cannot change after creation.
func (c *Course) ChangePrice(newPrice domain.Money) error {
	if newPrice.Currency != c.Price.Currency {
		return fmt.Errorf("%w: cannot change currency of existing course", domain.ErrValidation)
	}
	c.Price = newPrice
	c.Touch()
	return nil
}

// Deprecate queues CourseDeprecated.
func (c *Course) Deprecate() {
	c.Record(NewCourseDeprecated(c.ID, c.Title))
}
