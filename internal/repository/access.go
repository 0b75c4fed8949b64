// internal/repository/access.go
package repository

import (
	"fmt"
	"sync"

	"learnhub/internal/domain"
	"learnhub/internal/domain/access"
)

// AccessRepository stores access records with user, course and status
// membership indexes plus a (user, course) lookup.
type accessKeys struct {
	user   string
	course string
	status string
	pair   string
}

type AccessRepository struct {
	mu           sync.Mutex
	records      store[*access.AccessRecord]
	byUser       map[string][]string
	byCourse     map[string][]string
	byStatus     map[string][]string
	byUserCourse map[string]string
	// indexed remembers the keys each id was last indexed under, so a Save
	// after in-place mutation still clears stale entries.
	indexed map[string]accessKeys
}

func NewAccessRepository() *AccessRepository {
	return &AccessRepository{
		records:      newStore[*access.AccessRecord](),
		byUser:       make(map[string][]string),
		byCourse:     make(map[string][]string),
		byStatus:     make(map[string][]string),
		byUserCourse: make(map[string]string),
		indexed:      make(map[string]accessKeys),
	}
}

func pairKey(userID domain.UserID, courseID domain.CourseID) string {
	return string(userID) + "|" + string(courseID)
}

// Save upserts the record and refreshes its index entries. A second record
// for the same (user, course) pair is rejected with ErrConflict.
func (r *AccessRepository) Save(rec *access.AccessRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(rec.UserID, rec.CourseID)
	if existing, ok := r.byUserCourse[key]; ok && existing != string(rec.ID) {
		return fmt.Errorf("%w: user %s already has access to course %s", domain.ErrConflict, rec.UserID, rec.CourseID)
	}
	r.reindex(rec)
	r.records.put(string(rec.ID), rec)
	return nil
}

func (r *AccessRepository) reindex(rec *access.AccessRecord) {
	id := string(rec.ID)
	key := pairKey(rec.UserID, rec.CourseID)
	if prev, ok := r.indexed[id]; ok {
		if prev.user != string(rec.UserID) {
			removeFromIndex(r.byUser, prev.user, id)
		}
		if prev.course != string(rec.CourseID) {
			removeFromIndex(r.byCourse, prev.course, id)
		}
		if prev.status != string(rec.Status) {
			removeFromIndex(r.byStatus, prev.status, id)
		}
		if prev.pair != key {
			delete(r.byUserCourse, prev.pair)
		}
	}
	addToIndex(r.byUser, string(rec.UserID), id)
	addToIndex(r.byCourse, string(rec.CourseID), id)
	addToIndex(r.byStatus, string(rec.Status), id)
	r.byUserCourse[key] = id
	r.indexed[id] = accessKeys{user: string(rec.UserID), course: string(rec.CourseID), status: string(rec.Status), pair: key}
}

// ByID fetches a record or ErrNotFound.
func (r *AccessRepository) ByID(id domain.AccessID) (*access.AccessRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records.get(string(id))
	if !ok {
		return nil, fmt.Errorf("%w: access record %s", domain.ErrNotFound, id)
	}
	return rec, nil
}

// ByUserAndCourse resolves the single record for a (user, course) pair.
func (r *AccessRepository) ByUserAndCourse(userID domain.UserID, courseID domain.CourseID) (*access.AccessRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byUserCourse[pairKey(userID, courseID)]
	if !ok {
		return nil, fmt.Errorf("%w: no access for user %s on course %s", domain.ErrNotFound, userID, courseID)
	}
	rec, _ := r.records.get(id)
	return rec, nil
}

// ByUser lists a user's access records.
func (r *AccessRepository) ByUser(userID domain.UserID) []*access.AccessRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(r.byUser[string(userID)])
}

// ByCourse lists access records for a course.
func (r *AccessRepository) ByCourse(courseID domain.CourseID) []*access.AccessRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(r.byCourse[string(courseID)])
}

// ByStatus lists records in one lifecycle status.
func (r *AccessRepository) ByStatus(status access.Status) []*access.AccessRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(r.byStatus[string(status)])
}

func (r *AccessRepository) collect(ids []string) []*access.AccessRecord {
	out := make([]*access.AccessRecord, 0, len(ids))
	for _, id := range ids {
		if rec, ok := r.records.get(id); ok {
			out = append(out, rec)
		}
	}
	return out
}

// Delete removes the record and all its index entries.
func (r *AccessRepository) Delete(id domain.AccessID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records.get(string(id)); ok {
		keys := r.indexed[string(id)]
		removeFromIndex(r.byUser, keys.user, string(id))
		removeFromIndex(r.byCourse, keys.course, string(id))
		removeFromIndex(r.byStatus, keys.status, string(id))
		delete(r.byUserCourse, keys.pair)
		delete(r.indexed, string(id))
		r.records.remove(string(id))
	}
}

// All returns every stored access record.
func (r *AccessRepository) All() []*access.AccessRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records.all()
}
