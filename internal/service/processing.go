// internal/service/processing.go
package service

import (
	"errors"
	"fmt"
	"time"

	"learnhub/internal/domain"
	"learnhub/internal/domain/access"
	"learnhub/internal/domain/course"
	"learnhub/internal/domain/order"
	"learnhub/internal/repository"
)

// OrderProcessingService orchestrates payment confirmation with access
// granting, and refund approval with access revocation. Mutated aggregates
// are saved here; publishing their queued events stays with the caller.
type OrderProcessingService struct {
	orders  *repository.OrderRepository
	access  *repository.AccessRepository
	courses *repository.CourseRepository
}

func NewOrderProcessingService(
	orders *repository.OrderRepository,
	accessRepo *repository.AccessRepository,
	courses *repository.CourseRepository,
) *OrderProcessingService {
	return &OrderProcessingService{orders: orders, access: accessRepo, courses: courses}
}

// ProcessPayment confirms payment on a pending order and grants access to
// every course in it. Returns the access records that were created or
// reactivated.
func (s *OrderProcessingService) ProcessPayment(orderID domain.OrderID, info domain.PaymentInfo, expiresAt *time.Time) (*order.Order, []*access.AccessRecord, error) {
	o, err := s.orders.ByID(orderID)
	if err != nil {
		return nil, nil, err
	}
	if err := o.ConfirmPayment(info); err != nil {
		return nil, nil, err
	}
	if err := s.orders.Save(o); err != nil {
		return nil, nil, err
	}

	var records []*access.AccessRecord
	for _, item := range o.Items {
		rec, err := s.grantCourseAccess(o, item.CourseID, expiresAt)
		if err != nil {
			return o, records, fmt.Errorf("grant access for course %s: %w", item.CourseID, err)
		}
		records = append(records, rec)
	}
	return o, records, nil
}

// ProcessRefund approves the refund on an order and revokes access to its
// courses. Returns the access records that were revoked.
func (s *OrderProcessingService) ProcessRefund(orderID domain.OrderID, amount domain.Money, reason string) (*order.Order, []*access.AccessRecord, error) {
	o, err := s.orders.ByID(orderID)
	if err != nil {
		return nil, nil, err
	}
	if err := o.ApproveRefund(amount); err != nil {
		return nil, nil, err
	}
	if err := s.orders.Save(o); err != nil {
		return nil, nil, err
	}

	var revoked []*access.AccessRecord
	for _, item := range o.Items {
		rec, err := s.access.ByUserAndCourse(o.UserID, item.CourseID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return o, revoked, err
		}
		if err := rec.Revoke(reason); err != nil {
			continue
		}
		if err := s.access.Save(rec); err != nil {
			return o, revoked, err
		}
		revoked = append(revoked, rec)
	}
	return o, revoked, nil
}

// grantCourseAccess reuses an existing record when one exists: still-active
// access is returned as is, expired or revoked access is reactivated.
func (s *OrderProcessingService) grantCourseAccess(o *order.Order, courseID domain.CourseID, expiresAt *time.Time) (*access.AccessRecord, error) {
	existing, err := s.access.ByUserAndCourse(o.UserID, courseID)
	if err == nil {
		if existing.IsActive(time.Now().UTC()) {
			return existing, nil
		}
		if err := existing.Reactivate(expiresAt); err != nil {
			return nil, err
		}
		if err := s.access.Save(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// The expiry decides the grant shape. A limited course paid without an
	// explicit expiry defaults to one year from purchase.
	accessType := course.AccessUnlimited
	if expiresAt != nil {
		accessType = course.AccessLimited
	} else if c, err := s.courses.ByID(courseID); err == nil && c.AccessType == course.AccessLimited {
		accessType = course.AccessLimited
		deadline := o.CreatedAt.AddDate(1, 0, 0)
		expiresAt = &deadline
	}
	rec, err := access.Grant(o.UserID, courseID, o.ID, accessType, o.CreatedAt, expiresAt)
	if err != nil {
		return nil, err
	}
	if err := s.access.Save(rec); err != nil {
		return nil, err
	}
	return rec, nil
}
