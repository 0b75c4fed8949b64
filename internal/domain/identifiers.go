// internal/domain/identifiers.go
package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Identifier value objects. Each is a distinct string type so one aggregate's
// id cannot be passed where another's is expected; equality is by value.

type UserID string

type CourseID string

type OrderID string

type PolicyID string

type AccessID string

// NewUserID validates a user identifier. Values shaped like a UUID must parse
// as one; anything else only needs to be non-empty.
func NewUserID(value string) (UserID, error) {
	if value == "" {
		return "", fmt.Errorf("%w: user id must be a non-empty string", ErrValidation)
	}
	if len(value) == 36 && strings.Count(value, "-") == 4 {
		if _, err := uuid.Parse(value); err != nil {
			return "", fmt.Errorf("%w: user id must be a valid UUID", ErrValidation)
		}
	}
	return UserID(value), nil
}

func NewCourseID(value string) (CourseID, error) {
	if value == "" {
		return "", fmt.Errorf("%w: course id must be a non-empty string", ErrValidation)
	}
	return CourseID(value), nil
}

func NewOrderID(value string) (OrderID, error) {
	if value == "" {
		return "", fmt.Errorf("%w: order id must be a non-empty string", ErrValidation)
	}
	return OrderID(value), nil
}

func NewPolicyID(value string) (PolicyID, error) {
	if value == "" {
		return "", fmt.Errorf("%w: policy id must be a non-empty string", ErrValidation)
	}
	return PolicyID(value), nil
}

func NewAccessID(value string) (AccessID, error) {
	if value == "" {
		return "", fmt.Errorf("%w: access id must be a non-empty string", ErrValidation)
	}
	return AccessID(value), nil
}

func (id UserID) String() string   { return string(id) }
func (id CourseID) String() string { return string(id) }
func (id OrderID) String() string  { return string(id) }
func (id PolicyID) String() string { return string(id) }
func (id AccessID) String() string { return string(id) }

// NextID returns a fresh UUID string for aggregate factories.
func NextID() string { return uuid.NewString() }
