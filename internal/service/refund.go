// internal/service/refund.go
package service

import (
	"fmt"
	"strings"
	"time"

	"learnhub/internal/domain"
	"learnhub/internal/domain/access"
	"learnhub/internal/domain/order"
	"learnhub/internal/domain/policy"
	"learnhub/internal/repository"
)

// RefundEligibilityService evaluates refund eligibility across aggregates.
// The policy for each line is resolved through the course's current policy
// assignment.
type RefundEligibilityService struct {
	orders   *repository.OrderRepository
	access   *repository.AccessRepository
	courses  *repository.CourseRepository
	policies *repository.PolicyRepository
}

func NewRefundEligibilityService(
	orders *repository.OrderRepository,
	accessRepo *repository.AccessRepository,
	courses *repository.CourseRepository,
	policies *repository.PolicyRepository,
) *RefundEligibilityService {
	return &RefundEligibilityService{
		orders:   orders,
		access:   accessRepo,
		courses:  courses,
		policies: policies,
	}
}

// Evaluate reports whether an order qualifies for a refund and why. An order
// with a mix of eligible and ineligible courses still qualifies, flagged as
// partial in the reason.
func (s *RefundEligibilityService) Evaluate(orderID domain.OrderID, now time.Time) (bool, string) {
	o, err := s.orders.ByID(orderID)
	if err != nil {
		return false, "order not found"
	}
	if o.Status != order.StatusPaid {
		return false, "order is not in paid status"
	}

	records := s.recordsForOrder(o)
	if len(records) == 0 {
		return false, "no access records found for this order"
	}

	var eligible int
	var ineligible []string
	for _, rec := range records {
		p, err := s.policyFor(rec)
		if err != nil {
			ineligible = append(ineligible, fmt.Sprintf("course %s has no refund policy", rec.CourseID))
			continue
		}
		if s.recordEligible(rec, p, now) {
			eligible++
		} else {
			ineligible = append(ineligible, fmt.Sprintf("course %s not eligible per policy", rec.CourseID))
		}
	}

	switch {
	case eligible == 0:
		return false, "no eligible courses: " + strings.Join(ineligible, ", ")
	case eligible == len(records):
		return true, "all courses eligible for refund"
	default:
		return true, fmt.Sprintf("partial refund: %d/%d courses eligible", eligible, len(records))
	}
}

// EligibleRecords lists the access records on an order that currently qualify
// for a refund.
func (s *RefundEligibilityService) EligibleRecords(orderID domain.OrderID, now time.Time) []*access.AccessRecord {
	o, err := s.orders.ByID(orderID)
	if err != nil || o.Status != order.StatusPaid {
		return nil
	}
	var out []*access.AccessRecord
	for _, rec := range s.recordsForOrder(o) {
		p, err := s.policyFor(rec)
		if err != nil {
			continue
		}
		if s.recordEligible(rec, p, now) {
			out = append(out, rec)
		}
	}
	return out
}

func (s *RefundEligibilityService) recordEligible(rec *access.AccessRecord, p *policy.RefundPolicy, now time.Time) bool {
	return rec.CanBeRefunded() && p.IsRefundAllowed(rec.PurchasedAt, now, rec.Progress.Value())
}

func (s *RefundEligibilityService) recordsForOrder(o *order.Order) []*access.AccessRecord {
	var records []*access.AccessRecord
	for _, item := range o.Items {
		rec, err := s.access.ByUserAndCourse(o.UserID, item.CourseID)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}

func (s *RefundEligibilityService) policyFor(rec *access.AccessRecord) (*policy.RefundPolicy, error) {
	c, err := s.courses.ByID(rec.CourseID)
	if err != nil {
		return nil, err
	}
	return s.policies.ByID(c.PolicyID)
}
