// internal/app/course.go
package app

import (
	"context"
	"fmt"

	"learnhub/internal/domain"
	"learnhub/internal/domain/course"
	"learnhub/internal/eventbus"
	"learnhub/internal/eventlog"
	"learnhub/internal/repository"
)

type CreateCourseCommand struct {
	Title       string
	Description string
	Price       float64
	Currency    string
	AccessType  string
	PolicyID    string
}

type UpdateCourseCommand struct {
	CourseID    string
	Title       string
	Description string
	Price       float64
}

type ChangeCoursePolicyCommand struct {
	CourseID string
	PolicyID string
}

// CourseService handles course catalog maintenance.
type CourseService struct {
	courses  *repository.CourseRepository
	policies *repository.PolicyRepository
	log      *eventlog.Log
	bus      *eventbus.Bus
}

func NewCourseService(courses *repository.CourseRepository, policies *repository.PolicyRepository, log *eventlog.Log, bus *eventbus.Bus) *CourseService {
	return &CourseService{courses: courses, policies: policies, log: log, bus: bus}
}

// CreateCourse creates a course bound to an assignable refund policy.
func (s *CourseService) CreateCourse(ctx context.Context, cmd CreateCourseCommand) (Result, error) {
	title, err := course.NewTitle(cmd.Title)
	if err != nil {
		return Result{}, err
	}
	description, err := course.NewDescription(cmd.Description)
	if err != nil {
		return Result{}, err
	}
	price, err := domain.NewMoney(cmd.Price, cmd.Currency)
	if err != nil {
		return Result{}, err
	}
	accessType, err := course.ParseAccessType(cmd.AccessType)
	if err != nil {
		return Result{}, err
	}
	p, err := s.policies.ByID(domain.PolicyID(cmd.PolicyID))
	if err != nil {
		return Result{}, err
	}
	if !p.CanBeAssigned() {
		return Result{}, fmt.Errorf("%w: policy %s cannot be assigned", domain.ErrInvalidTransition, p.ID)
	}

	c := course.Create(title, description, price, accessType, p.ID)
	if err := s.courses.Save(c); err != nil {
		return Result{}, err
	}
	publish(ctx, s.log, s.bus, c)
	return Result{ID: string(c.ID), Status: "created", Message: "course created"}, nil
}

// UpdateCourse changes title, description and price. The currency stays
// fixed.
func (s *CourseService) UpdateCourse(ctx context.Context, cmd UpdateCourseCommand) (Result, error) {
	c, err := s.courses.ByID(domain.CourseID(cmd.CourseID))
	if err != nil {
		return Result{}, err
	}
	title, err := course.NewTitle(cmd.Title)
	if err != nil {
		return Result{}, err
	}
	description, err := course.NewDescription(cmd.Description)
	if err != nil {
		return Result{}, err
	}
	price, err := domain.NewMoney(cmd.Price, c.Price.Currency)
	if err != nil {
		return Result{}, err
	}
	if err := c.ChangePrice(price); err != nil {
		return Result{}, err
	}
	c.UpdateDetails(title, description)
	if err := s.courses.Save(c); err != nil {
		return Result{}, err
	}
	publish(ctx, s.log, s.bus, c)
	return Result{ID: string(c.ID), Status: "updated", Message: "course updated"}, nil
}

// ChangeCoursePolicy points the course at a different assignable policy.
func (s *CourseService) ChangeCoursePolicy(ctx context.Context, cmd ChangeCoursePolicyCommand) (Result, error) {
	c, err := s.courses.ByID(domain.CourseID(cmd.CourseID))
	if err != nil {
		return Result{}, err
	}
	p, err := s.policies.ByID(domain.PolicyID(cmd.PolicyID))
	if err != nil {
		return Result{}, err
	}
	if !p.CanBeAssigned() {
		return Result{}, fmt.Errorf("%w: policy %s cannot be assigned", domain.ErrInvalidTransition, p.ID)
	}
	c.AssignPolicy(p.ID)
	if err := s.courses.Save(c); err != nil {
		return Result{}, err
	}
	publish(ctx, s.log, s.bus, c)
	return Result{ID: string(c.ID), Status: "updated", Message: "course policy changed"}, nil
}

// DeprecateCourse retires the course from the catalog.
func (s *CourseService) DeprecateCourse(ctx context.Context, courseID string) (Result, error) {
	c, err := s.courses.ByID(domain.CourseID(courseID))
	if err != nil {
		return Result{}, err
	}
	c.Deprecate()
	if err := s.courses.Save(c); err != nil {
		return Result{}, err
	}
	publish(ctx, s.log, s.bus, c)
	return Result{ID: string(c.ID), Status: "deprecated", Message: "course deprecated"}, nil
}
