// internal/service/lifecycle.go
package service

import (
	"fmt"
	"time"

	"learnhub/internal/domain"
	"learnhub/internal/domain/access"
	"learnhub/internal/repository"
)

// AccessLifecycleService sweeps and reactivates access records. Callers are
// responsible for publishing the events the mutated records queue.
type AccessLifecycleService struct {
	access *repository.AccessRepository
}

func NewAccessLifecycleService(accessRepo *repository.AccessRepository) *AccessLifecycleService {
	return &AccessLifecycleService{access: accessRepo}
}

// ExpireAccessRecords flips every active record past its expiry and returns
// the records that changed.
func (s *AccessLifecycleService) ExpireAccessRecords(now time.Time) ([]*access.AccessRecord, error) {
	var expired []*access.AccessRecord
	for _, rec := range s.access.ByStatus(access.StatusActive) {
		if rec.IsActive(now) {
			continue
		}
		rec.Expire(now)
		if rec.Status != access.StatusExpired {
			continue
		}
		if err := s.access.Save(rec); err != nil {
			return expired, fmt.Errorf("save expired record %s: %w", rec.ID, err)
		}
		expired = append(expired, rec)
	}
	return expired, nil
}

// ReactivateUserAccess restores a user's access to a course with a new
// expiration.
func (s *AccessLifecycleService) ReactivateUserAccess(userID domain.UserID, courseID domain.CourseID, newExpiration *time.Time) (*access.AccessRecord, error) {
	rec, err := s.access.ByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, err
	}
	if err := rec.Reactivate(newExpiration); err != nil {
		return nil, err
	}
	if err := s.access.Save(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ExpiredAccessForUser lists a user's records that have lapsed as of now,
// whether or not the sweep has flipped them yet.
func (s *AccessLifecycleService) ExpiredAccessForUser(userID domain.UserID, now time.Time) []*access.AccessRecord {
	var out []*access.AccessRecord
	for _, rec := range s.access.ByUser(userID) {
		if rec.Status == access.StatusExpired {
			out = append(out, rec)
			continue
		}
		if rec.Status == access.StatusActive && !rec.IsActive(now) {
			out = append(out, rec)
		}
	}
	return out
}
