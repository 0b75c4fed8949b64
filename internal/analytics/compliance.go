// internal/analytics/compliance.go

package analytics

import (
	"context"
	"log"
	"sort"
	"sync"

	"learnhub/internal/domain"
	"learnhub/internal/domain/course"
	"learnhub/internal/domain/policy"
)

// ComplianceWarning records a deprecated policy that courses still use.
type ComplianceWarning struct {
	PolicyID string
	Name     string
	Courses  []string
}

// PolicyCompliance tracks which courses use which refund policy and
// warns when a policy is deprecated while courses still point at it.
type PolicyCompliance struct {
	mu             sync.RWMutex
	courseToPolicy map[string]string
	policyCourses  map[string]map[string]bool
	deprecated     map[string]string
	warnings       []ComplianceWarning
}

func NewPolicyCompliance() *PolicyCompliance {
	return &PolicyCompliance{
		courseToPolicy: make(map[string]string),
		policyCourses:  make(map[string]map[string]bool),
		deprecated:     make(map[string]string),
	}
}

func (h *PolicyCompliance) Name() string { return "policy-compliance" }

func (h *PolicyCompliance) EventTypes() []string {
	return []string{
		course.EventCoursePolicyChanged,
		policy.EventPolicyDeprecated,
		policy.EventPolicyReactivated,
	}
}

func (h *PolicyCompliance) Handle(_ context.Context, event domain.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch e := event.(type) {
	case course.CoursePolicyChanged:
		courseID := e.CourseID.String()
		if old, ok := h.courseToPolicy[courseID]; ok {
			delete(h.policyCourses[old], courseID)
		}
		newID := e.NewPolicyID.String()
		h.courseToPolicy[courseID] = newID
		if h.policyCourses[newID] == nil {
			h.policyCourses[newID] = make(map[string]bool)
		}
		h.policyCourses[newID][courseID] = true
		// Moving a course onto an already-deprecated policy is itself a
		// compliance problem.
		if name, ok := h.deprecated[newID]; ok {
			h.warn(newID, name)
		}
	case policy.PolicyDeprecated:
		id := e.PolicyID.String()
		h.deprecated[id] = e.Name
		if len(h.policyCourses[id]) > 0 {
			h.warn(id, e.Name)
		}
	case policy.PolicyReactivated:
		delete(h.deprecated, e.PolicyID.String())
	}
	return nil
}

func (h *PolicyCompliance) warn(policyID, name string) {
	courses := make([]string, 0, len(h.policyCourses[policyID]))
	for c := range h.policyCourses[policyID] {
		courses = append(courses, c)
	}
	sort.Strings(courses)
	w := ComplianceWarning{PolicyID: policyID, Name: name, Courses: courses}
	h.warnings = append(h.warnings, w)
	log.Printf("compliance: policy %q (%s) is deprecated but %d course(s) still use it",
		name, policyID, len(courses))
}

// Warnings returns every warning raised so far, oldest first.
func (h *PolicyCompliance) Warnings() []ComplianceWarning {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]ComplianceWarning, len(h.warnings))
	copy(out, h.warnings)
	return out
}

// CoursesUsing lists the courses currently pointing at a policy.
func (h *PolicyCompliance) CoursesUsing(policyID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.policyCourses[policyID]))
	for c := range h.policyCourses[policyID] {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
