// internal/readmodel/catalog.go
package readmodel

import (
	"context"
	"sync"

	"learnhub/internal/domain"
	"learnhub/internal/domain/course"
	"learnhub/internal/domain/policy"
	"learnhub/internal/eventlog"
)

// CatalogPolicy is the policy summary embedded in a catalog entry. Type and
// RefundPeriodDays stay empty until a PolicyUpdated event fills them in.
type CatalogPolicy struct {
	PolicyID         string
	Type             string
	RefundPeriodDays int
}

// CatalogEntry is one course as the catalog sees it.
type CatalogEntry struct {
	CourseID    string
	Title       string
	Description string
	Status      string
	Policy      CatalogPolicy
}

// CourseCatalog lists all courses with pricing policy metadata, eventually
// consistent with domain state.
type CourseCatalog struct {
	mu       sync.RWMutex
	entries  map[string]*CatalogEntry
	handlers map[string]func(domain.Event)
}

func NewCourseCatalog() *CourseCatalog {
	p := &CourseCatalog{entries: make(map[string]*CatalogEntry)}
	p.handlers = map[string]func(domain.Event){
		course.EventCourseCreated:       p.onCourseCreated,
		course.EventCourseUpdated:       p.onCourseUpdated,
		course.EventCoursePolicyChanged: p.onPolicyChanged,
		course.EventCourseDeprecated:    p.onCourseDeprecated,
		policy.EventPolicyUpdated:       p.onPolicyUpdated,
		policy.EventPolicyDeprecated:    p.onPolicyDeprecated,
		policy.EventPolicyReactivated:   p.onPolicyReactivated,
	}
	return p
}

func (p *CourseCatalog) Name() string { return "course-catalog" }

func (p *CourseCatalog) EventTypes() []string {
	types := make([]string, 0, len(p.handlers))
	for t := range p.handlers {
		types = append(types, t)
	}
	return types
}

func (p *CourseCatalog) Handle(_ context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if fn, ok := p.handlers[event.EventType()]; ok {
		fn(event)
	}
	return nil
}

// Rebuild resets the catalog and replays the full event log.
func (p *CourseCatalog) Rebuild(log *eventlog.Log) {
	p.mu.Lock()
	p.entries = make(map[string]*CatalogEntry)
	p.mu.Unlock()
	replay(log, func(ev domain.Event) {
		p.Handle(context.Background(), ev)
	})
}

func (p *CourseCatalog) onCourseCreated(event domain.Event) {
	e, ok := event.(course.CourseCreated)
	if !ok {
		return
	}
	p.entries[e.CourseID.String()] = &CatalogEntry{
		CourseID: e.CourseID.String(),
		Title:    e.Title,
		Status:   "active",
		Policy:   CatalogPolicy{PolicyID: e.PolicyID.String()},
	}
}

func (p *CourseCatalog) onCourseUpdated(event domain.Event) {
	e, ok := event.(course.CourseUpdated)
	if !ok {
		return
	}
	if entry, ok := p.entries[e.CourseID.String()]; ok {
		entry.Title = e.Title
		entry.Description = e.Description
	}
}

func (p *CourseCatalog) onPolicyChanged(event domain.Event) {
	e, ok := event.(course.CoursePolicyChanged)
	if !ok {
		return
	}
	if entry, ok := p.entries[e.CourseID.String()]; ok {
		// Metadata of the new policy is unknown until its next
		// PolicyUpdated arrives.
		entry.Policy = CatalogPolicy{PolicyID: e.NewPolicyID.String()}
	}
}

func (p *CourseCatalog) onCourseDeprecated(event domain.Event) {
	e, ok := event.(course.CourseDeprecated)
	if !ok {
		return
	}
	if entry, ok := p.entries[e.CourseID.String()]; ok {
		entry.Status = "deprecated"
	}
}

func (p *CourseCatalog) onPolicyUpdated(event domain.Event) {
	e, ok := event.(policy.PolicyUpdated)
	if !ok {
		return
	}
	for _, entry := range p.entries {
		if entry.Policy.PolicyID == e.PolicyID.String() {
			entry.Policy.Type = string(e.PolicyType)
			entry.Policy.RefundPeriodDays = e.RefundPeriodDays
		}
	}
}

func (p *CourseCatalog) onPolicyDeprecated(event domain.Event) {
	e, ok := event.(policy.PolicyDeprecated)
	if !ok {
		return
	}
	for _, entry := range p.entries {
		if entry.Policy.PolicyID == e.PolicyID.String() {
			entry.Status = "deprecated"
		}
	}
}

func (p *CourseCatalog) onPolicyReactivated(event domain.Event) {
	e, ok := event.(policy.PolicyReactivated)
	if !ok {
		return
	}
	for _, entry := range p.entries {
		if entry.Policy.PolicyID == e.PolicyID.String() {
			entry.Status = "active"
		}
	}
}

// Course returns a copy of one catalog entry.
func (p *CourseCatalog) Course(courseID string) (CatalogEntry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	entry, ok := p.entries[courseID]
	if !ok {
		return CatalogEntry{}, false
	}
	return *entry, true
}

// All returns a copy of every catalog entry.
func (p *CourseCatalog) All() []CatalogEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]CatalogEntry, 0, len(p.entries))
	for _, entry := range p.entries {
		out = append(out, *entry)
	}
	return out
}
