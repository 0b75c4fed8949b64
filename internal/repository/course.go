// internal/repository/course.go
package repository

import (
	"fmt"
	"sync"

	"learnhub/internal/domain"
	"learnhub/internal/domain/course"
)

// CourseRepository stores courses with a unique title index and a policy
// membership index.
type courseKeys struct {
	title  string
	policy string
}

type CourseRepository struct {
	mu       sync.Mutex
	courses  store[*course.Course]
	byTitle  map[string]string
	byPolicy map[string][]string
	// indexed remembers the keys each id was last indexed under, so a Save
	// after in-place mutation still clears stale entries.
	indexed map[string]courseKeys
}

func NewCourseRepository() *CourseRepository {
	return &CourseRepository{
		courses:  newStore[*course.Course](),
		byTitle:  make(map[string]string),
		byPolicy: make(map[string][]string),
		indexed:  make(map[string]courseKeys),
	}
}

// Save upserts the course, enforcing title uniqueness across other ids.
func (r *CourseRepository) Save(c *course.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byTitle[c.Title]; ok && existing != string(c.ID) {
		return fmt.Errorf("%w: course title %q already in use", domain.ErrConflict, c.Title)
	}
	r.reindex(c)
	r.courses.put(string(c.ID), c)
	return nil
}

func (r *CourseRepository) reindex(c *course.Course) {
	id := string(c.ID)
	if prev, ok := r.indexed[id]; ok {
		if prev.title != c.Title {
			delete(r.byTitle, prev.title)
		}
		if prev.policy != string(c.PolicyID) {
			removeFromIndex(r.byPolicy, prev.policy, id)
		}
	}
	r.byTitle[c.Title] = id
	addToIndex(r.byPolicy, string(c.PolicyID), id)
	r.indexed[id] = courseKeys{title: c.Title, policy: string(c.PolicyID)}
}

// ByID fetches a course or ErrNotFound.
func (r *CourseRepository) ByID(id domain.CourseID) (*course.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses.get(string(id))
	if !ok {
		return nil, fmt.Errorf("%w: course %s", domain.ErrNotFound, id)
	}
	return c, nil
}

// ByTitle fetches a course through the title index or ErrNotFound.
func (r *CourseRepository) ByTitle(title string) (*course.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byTitle[title]
	if !ok {
		return nil, fmt.Errorf("%w: no course titled %q", domain.ErrNotFound, title)
	}
	c, _ := r.courses.get(id)
	return c, nil
}

// ByPolicy lists courses currently assigned to a policy.
func (r *CourseRepository) ByPolicy(policyID domain.PolicyID) []*course.Course {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.byPolicy[string(policyID)]
	out := make([]*course.Course, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.courses.get(id); ok {
			out = append(out, c)
		}
	}
	return out
}

// Delete removes the course and all its index entries.
func (r *CourseRepository) Delete(id domain.CourseID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses.get(string(id)); ok {
		keys := r.indexed[string(id)]
		delete(r.byTitle, keys.title)
		removeFromIndex(r.byPolicy, keys.policy, string(id))
		delete(r.indexed, string(id))
		r.courses.remove(string(id))
	}
}

// All returns every stored course.
func (r *CourseRepository) All() []*course.Course {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.courses.all()
}
