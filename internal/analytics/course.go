// internal/analytics/course.go
package analytics

import (
	"context"
	"sort"
	"sync"

	"learnhub/internal/domain"
	"learnhub/internal/domain/course"
)

// CourseMetrics is a snapshot of the course lifecycle counters.
type CourseMetrics struct {
	CoursesCreated    int
	CoursesUpdated    int
	CoursesDeprecated int
	ActiveCourses     int
	DeprecatedCourses int
}

// CourseAnalytics counts course lifecycle events and tracks which courses
// are active, which are deprecated and how they spread across policies.
type CourseAnalytics struct {
	mu         sync.Mutex
	metrics    CourseMetrics
	active     map[string]bool
	deprecated map[string]bool
	byPolicy   map[string]map[string]bool
	policyFor  map[string]string
}

func NewCourseAnalytics() *CourseAnalytics {
	return &CourseAnalytics{
		active:     make(map[string]bool),
		deprecated: make(map[string]bool),
		byPolicy:   make(map[string]map[string]bool),
		policyFor:  make(map[string]string),
	}
}

func (h *CourseAnalytics) Name() string { return "course-analytics" }

// EventTypes lists the subscriptions this handler needs.
func (h *CourseAnalytics) EventTypes() []string {
	return []string{
		course.EventCourseCreated,
		course.EventCourseUpdated,
		course.EventCoursePolicyChanged,
		course.EventCourseDeprecated,
	}
}

func (h *CourseAnalytics) Handle(_ context.Context, event domain.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch e := event.(type) {
	case course.CourseCreated:
		h.metrics.CoursesCreated++
		h.active[e.CourseID.String()] = true
		h.assign(e.CourseID.String(), e.PolicyID.String())
	case course.CourseUpdated:
		h.metrics.CoursesUpdated++
	case course.CoursePolicyChanged:
		h.assign(e.CourseID.String(), e.NewPolicyID.String())
	case course.CourseDeprecated:
		id := e.CourseID.String()
		if h.active[id] {
			delete(h.active, id)
		}
		if !h.deprecated[id] {
			h.metrics.CoursesDeprecated++
			h.deprecated[id] = true
		}
	}
	h.metrics.ActiveCourses = len(h.active)
	h.metrics.DeprecatedCourses = len(h.deprecated)
	return nil
}

func (h *CourseAnalytics) assign(courseID, policyID string) {
	if old, ok := h.policyFor[courseID]; ok {
		delete(h.byPolicy[old], courseID)
	}
	h.policyFor[courseID] = policyID
	if h.byPolicy[policyID] == nil {
		h.byPolicy[policyID] = make(map[string]bool)
	}
	h.byPolicy[policyID][courseID] = true
}

// Metrics returns a snapshot of the counters.
func (h *CourseAnalytics) Metrics() CourseMetrics {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.metrics
}

// CoursesByPolicy lists the courses currently assigned to one policy,
// sorted by id.
func (h *CourseAnalytics) CoursesByPolicy(policyID string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.byPolicy[policyID]))
	for id := range h.byPolicy[policyID] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// IsActive reports whether a course was created and not yet deprecated.
func (h *CourseAnalytics) IsActive(courseID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active[courseID]
}
