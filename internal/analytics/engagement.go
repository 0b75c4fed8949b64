// internal/analytics/engagement.go

package analytics

import (
	"context"
	"sort"
	"sync"
	"time"

	"learnhub/internal/domain"
	"learnhub/internal/domain/access"
)

// UserEngagement summarises one learner's activity across courses.
type UserEngagement struct {
	UserID        string
	ActiveCourses int
	Completions   int
	ProgressSum   float64
	LastSeen      time.Time
	Score         float64
}

type engagementState struct {
	courses     map[string]bool
	progress    map[string]float64
	completions int
	lastSeen    time.Time
}

// AccessEngagement watches access events and keeps a per-user engagement
// score. The score weighs active courses, average progress and
// completions so stalled learners surface through EngagementAlerts.
type AccessEngagement struct {
	mu    sync.RWMutex
	users map[string]*engagementState
}

func NewAccessEngagement() *AccessEngagement {
	return &AccessEngagement{users: make(map[string]*engagementState)}
}

func (h *AccessEngagement) Name() string { return "access-engagement" }

func (h *AccessEngagement) EventTypes() []string {
	return []string{
		access.EventCourseAccessGranted,
		access.EventAccessRevoked,
		access.EventAccessExpired,
		access.EventProgressUpdated,
		access.EventCourseCompleted,
	}
}

func (h *AccessEngagement) Handle(_ context.Context, event domain.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch e := event.(type) {
	case access.CourseAccessGranted:
		s := h.state(string(e.UserID))
		s.courses[string(e.CourseID)] = true
		s.lastSeen = e.OccurredOn()
	case access.AccessRevoked:
		s := h.state(string(e.UserID))
		delete(s.courses, string(e.CourseID))
		delete(s.progress, string(e.CourseID))
	case access.AccessExpired:
		s := h.state(string(e.UserID))
		delete(s.courses, string(e.CourseID))
		delete(s.progress, string(e.CourseID))
	case access.ProgressUpdated:
		s := h.state(string(e.UserID))
		s.progress[string(e.CourseID)] = e.NewProgress
		s.lastSeen = e.OccurredOn()
	case access.CourseCompleted:
		s := h.state(string(e.UserID))
		s.completions++
		s.progress[string(e.CourseID)] = 100
		s.lastSeen = e.OccurredOn()
	}
	return nil
}

func (h *AccessEngagement) state(userID string) *engagementState {
	s, ok := h.users[userID]
	if !ok {
		s = &engagementState{
			courses:  make(map[string]bool),
			progress: make(map[string]float64),
		}
		h.users[userID] = s
	}
	return s
}

// Engagement returns the current summary for one user. The boolean is
// false for users that never produced an access event.
func (h *AccessEngagement) Engagement(userID string) (UserEngagement, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.users[userID]
	if !ok {
		return UserEngagement{}, false
	}
	return h.summarise(userID, s), true
}

// EngagementAlerts lists users whose score fell below the threshold,
// sorted worst first.
func (h *AccessEngagement) EngagementAlerts(threshold float64) []UserEngagement {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var out []UserEngagement
	for id, s := range h.users {
		u := h.summarise(id, s)
		if u.Score < threshold {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score < out[j].Score
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

// ActiveUsers counts users that still hold at least one active course.
func (h *AccessEngagement) ActiveUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, s := range h.users {
		if len(s.courses) > 0 {
			n++
		}
	}
	return n
}

func (h *AccessEngagement) summarise(userID string, s *engagementState) UserEngagement {
	u := UserEngagement{
		UserID:        userID,
		ActiveCourses: len(s.courses),
		Completions:   s.completions,
		LastSeen:      s.lastSeen,
	}
	for _, p := range s.progress {
		u.ProgressSum += p
	}
	avg := 0.0
	if len(s.progress) > 0 {
		avg = u.ProgressSum / float64(len(s.progress))
	}
	u.Score = float64(u.ActiveCourses)*10 + avg + float64(u.Completions)*25
	if u.Score > 100 {
		u.Score = 100
	}
	return u
}
