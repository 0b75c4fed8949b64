// internal/readmodel/useraccess.go
package readmodel

import (
	"context"
	"sync"
	"time"

	"learnhub/internal/domain"
	"learnhub/internal/domain/access"
	"learnhub/internal/eventlog"
)

// CourseAccess is one course a user can (or could) reach.
type CourseAccess struct {
	CourseID  string
	AccessID  string
	Status    string
	Progress  float64
	ExpiresAt *time.Time
}

// UserAccessView is everything the projection knows about one user.
type UserAccessView struct {
	Courses      []CourseAccess
	LastActivity time.Time
}

type userAccessEntry struct {
	courses      []*CourseAccess
	lastActivity time.Time
}

// UserAccess shows all courses a user can access with status, progress and
// expiration. Duplicate grants for the same access id are deduplicated.
type UserAccess struct {
	mu       sync.RWMutex
	users    map[string]*userAccessEntry
	handlers map[string]func(domain.Event)
}

func NewUserAccess() *UserAccess {
	p := &UserAccess{users: make(map[string]*userAccessEntry)}
	p.handlers = map[string]func(domain.Event){
		access.EventCourseAccessGranted: p.onGranted,
		access.EventAccessRevoked:       p.onRevoked,
		access.EventAccessExpired:       p.onExpired,
		access.EventProgressUpdated:     p.onProgress,
		access.EventCourseCompleted:     p.onCompleted,
	}
	return p
}

func (p *UserAccess) Name() string { return "user-access" }

func (p *UserAccess) EventTypes() []string {
	types := make([]string, 0, len(p.handlers))
	for t := range p.handlers {
		types = append(types, t)
	}
	return types
}

func (p *UserAccess) Handle(_ context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if fn, ok := p.handlers[event.EventType()]; ok {
		fn(event)
	}
	return nil
}

// Rebuild resets the projection and replays the full event log.
func (p *UserAccess) Rebuild(log *eventlog.Log) {
	p.mu.Lock()
	p.users = make(map[string]*userAccessEntry)
	p.mu.Unlock()
	replay(log, func(ev domain.Event) {
		p.Handle(context.Background(), ev)
	})
}

func (p *UserAccess) entryFor(userID string) *userAccessEntry {
	entry, ok := p.users[userID]
	if !ok {
		entry = &userAccessEntry{}
		p.users[userID] = entry
	}
	return entry
}

func (p *UserAccess) findCourse(entry *userAccessEntry, accessID string) *CourseAccess {
	for _, c := range entry.courses {
		if c.AccessID == accessID {
			return c
		}
	}
	return nil
}

func (p *UserAccess) onGranted(event domain.Event) {
	e, ok := event.(access.CourseAccessGranted)
	if !ok {
		return
	}
	entry := p.entryFor(e.UserID.String())
	if p.findCourse(entry, e.AggregateID()) == nil {
		entry.courses = append(entry.courses, &CourseAccess{
			CourseID:  e.CourseID.String(),
			AccessID:  e.AggregateID(),
			Status:    "active",
			ExpiresAt: e.ExpiresAt,
		})
	}
	entry.lastActivity = e.OccurredOn()
}

func (p *UserAccess) onRevoked(event domain.Event) {
	e, ok := event.(access.AccessRevoked)
	if !ok {
		return
	}
	entry := p.entryFor(e.UserID.String())
	if c := p.findCourse(entry, e.AggregateID()); c != nil {
		c.Status = "revoked"
	}
	entry.lastActivity = e.OccurredOn()
}

func (p *UserAccess) onExpired(event domain.Event) {
	e, ok := event.(access.AccessExpired)
	if !ok {
		return
	}
	entry := p.entryFor(e.UserID.String())
	if c := p.findCourse(entry, e.AggregateID()); c != nil {
		c.Status = "expired"
	}
	entry.lastActivity = e.OccurredOn()
}

func (p *UserAccess) onProgress(event domain.Event) {
	e, ok := event.(access.ProgressUpdated)
	if !ok {
		return
	}
	entry := p.entryFor(e.UserID.String())
	if c := p.findCourse(entry, e.AggregateID()); c != nil {
		c.Progress = e.NewProgress
	}
	entry.lastActivity = e.OccurredOn()
}

func (p *UserAccess) onCompleted(event domain.Event) {
	e, ok := event.(access.CourseCompleted)
	if !ok {
		return
	}
	entry := p.entryFor(e.UserID.String())
	if c := p.findCourse(entry, e.AggregateID()); c != nil {
		c.Progress = 100
		c.Status = "completed"
	}
	entry.lastActivity = e.OccurredOn()
}

// Access returns a copy of everything known about one user.
func (p *UserAccess) Access(userID string) UserAccessView {
	p.mu.RLock()
	defer p.mu.RUnlock()
	entry, ok := p.users[userID]
	if !ok {
		return UserAccessView{}
	}
	view := UserAccessView{
		Courses:      make([]CourseAccess, 0, len(entry.courses)),
		LastActivity: entry.lastActivity,
	}
	for _, c := range entry.courses {
		view.Courses = append(view.Courses, *c)
	}
	return view
}
