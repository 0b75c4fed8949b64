// internal/readmodel/policyusage.go
package readmodel

import (
	"context"
	"sort"
	"sync"

	"learnhub/internal/domain"
	"learnhub/internal/domain/course"
	"learnhub/internal/domain/policy"
	"learnhub/internal/eventlog"
)

// PolicyUsageEntry is one policy with its adoption across courses.
type PolicyUsageEntry struct {
	PolicyID         string
	Name             string
	Type             string
	RefundPeriodDays int
	Status           string
	AdoptionCount    int
	CoursesUsing     []string
}

type policyUsageState struct {
	PolicyUsageEntry
	coursesUsing map[string]bool
}

// PolicyUsage shows policy details and their adoption across courses.
// Deprecating or reactivating a policy flips its status but never touches
// adoption counts.
type PolicyUsage struct {
	mu             sync.RWMutex
	policies       map[string]*policyUsageState
	courseToPolicy map[string]string
	handlers       map[string]func(domain.Event)
}

func NewPolicyUsage() *PolicyUsage {
	p := &PolicyUsage{
		policies:       make(map[string]*policyUsageState),
		courseToPolicy: make(map[string]string),
	}
	p.handlers = map[string]func(domain.Event){
		policy.EventPolicyCreated:       p.onCreated,
		policy.EventPolicyUpdated:       p.onUpdated,
		policy.EventPolicyDeprecated:    p.onDeprecated,
		policy.EventPolicyReactivated:   p.onReactivated,
		course.EventCoursePolicyChanged: p.onCoursePolicyChanged,
	}
	return p
}

func (p *PolicyUsage) Name() string { return "policy-usage" }

func (p *PolicyUsage) EventTypes() []string {
	types := make([]string, 0, len(p.handlers))
	for t := range p.handlers {
		types = append(types, t)
	}
	return types
}

func (p *PolicyUsage) Handle(_ context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if fn, ok := p.handlers[event.EventType()]; ok {
		fn(event)
	}
	return nil
}

// Rebuild resets the projection and replays the full event log.
func (p *PolicyUsage) Rebuild(log *eventlog.Log) {
	p.mu.Lock()
	p.policies = make(map[string]*policyUsageState)
	p.courseToPolicy = make(map[string]string)
	p.mu.Unlock()
	replay(log, func(ev domain.Event) {
		p.Handle(context.Background(), ev)
	})
}

func (p *PolicyUsage) onCreated(event domain.Event) {
	e, ok := event.(policy.PolicyCreated)
	if !ok {
		return
	}
	p.policies[e.PolicyID.String()] = &policyUsageState{
		PolicyUsageEntry: PolicyUsageEntry{
			PolicyID:         e.PolicyID.String(),
			Name:             e.Name,
			Type:             string(e.PolicyType),
			RefundPeriodDays: e.RefundPeriodDays,
			Status:           "active",
		},
		coursesUsing: make(map[string]bool),
	}
}

func (p *PolicyUsage) onUpdated(event domain.Event) {
	e, ok := event.(policy.PolicyUpdated)
	if !ok {
		return
	}
	state, ok := p.policies[e.PolicyID.String()]
	if !ok {
		return
	}
	state.Name = e.Name
	state.Type = string(e.PolicyType)
	state.RefundPeriodDays = e.RefundPeriodDays
	if e.Status != "" {
		state.Status = e.Status
	}
}

func (p *PolicyUsage) onDeprecated(event domain.Event) {
	e, ok := event.(policy.PolicyDeprecated)
	if !ok {
		return
	}
	if state, ok := p.policies[e.PolicyID.String()]; ok {
		state.Status = "deprecated"
	}
}

func (p *PolicyUsage) onReactivated(event domain.Event) {
	e, ok := event.(policy.PolicyReactivated)
	if !ok {
		return
	}
	if state, ok := p.policies[e.PolicyID.String()]; ok {
		state.Status = "active"
	}
}

func (p *PolicyUsage) onCoursePolicyChanged(event domain.Event) {
	e, ok := event.(course.CoursePolicyChanged)
	if !ok {
		return
	}
	courseID := e.CourseID.String()
	if old, ok := p.policies[e.OldPolicyID.String()]; ok {
		delete(old.coursesUsing, courseID)
		old.AdoptionCount = len(old.coursesUsing)
	}
	if next, ok := p.policies[e.NewPolicyID.String()]; ok {
		next.coursesUsing[courseID] = true
		next.AdoptionCount = len(next.coursesUsing)
	}
	p.courseToPolicy[courseID] = e.NewPolicyID.String()
}

// Policy returns a copy of one usage entry with a sorted course list.
func (p *PolicyUsage) Policy(policyID string) (PolicyUsageEntry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	state, ok := p.policies[policyID]
	if !ok {
		return PolicyUsageEntry{}, false
	}
	return p.snapshot(state), true
}

// All returns copies of every usage entry keyed by policy id.
func (p *PolicyUsage) All() map[string]PolicyUsageEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]PolicyUsageEntry, len(p.policies))
	for id, state := range p.policies {
		out[id] = p.snapshot(state)
	}
	return out
}

// PolicyForCourse resolves a course's current policy id.
func (p *PolicyUsage) PolicyForCourse(courseID string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	id, ok := p.courseToPolicy[courseID]
	return id, ok
}

func (p *PolicyUsage) snapshot(state *policyUsageState) PolicyUsageEntry {
	entry := state.PolicyUsageEntry
	entry.CoursesUsing = make([]string, 0, len(state.coursesUsing))
	for id := range state.coursesUsing {
		entry.CoursesUsing = append(entry.CoursesUsing, id)
	}
	sort.Strings(entry.CoursesUsing)
	return entry
}
