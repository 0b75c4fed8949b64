// internal/domain/policy/policy.go
package policy

import (
	"fmt"
	"time"

	"learnhub/internal/domain"
)

// Type classifies a refund policy.
type Type string

const (
	TypeStandard Type = "standard"
	TypeExtended Type = "extended"
	TypeNoRefund Type = "no_refund"
)

// ParseType maps the wire value onto a policy Type.
func ParseType(value string) (Type, error) {
	switch Type(value) {
	case TypeStandard, TypeExtended, TypeNoRefund:
		return Type(value), nil
	}
	return "", fmt.Errorf("%w: unknown policy type %q", domain.ErrValidation, value)
}

// Status is the policy lifecycle state.
type Status string

const (
	StatusActive     Status = "active"
	StatusDeprecated Status = "deprecated"
	StatusArchived   Status = "archived"
)

// NewName validates a policy name.
func NewName(value string) (string, error) {
	return domain.BoundedText("policy name", value, 100)
}

// NewConditions validates policy conditions text.
func NewConditions(value string) (string, error) {
	return domain.BoundedText("policy conditions", value, 1000)
}

// RefundPolicy is the aggregate root expressing refund eligibility rules.
// Only active policies may be mutated; deprecate/reactivate/archive are the
// guarded lifecycle transitions.
type RefundPolicy struct {
	domain.Entity

	ID           domain.PolicyID
	Name         string
	PolicyType   Type
	RefundPeriod domain.RefundPeriod
	Conditions   string
	Status       Status
}

// Create builds a new active policy and queues PolicyCreated.
func Create(name string, policyType Type, period domain.RefundPeriod, conditions string) *RefundPolicy {
	id := domain.PolicyID(domain.NextID())
	p := &RefundPolicy{
		Entity:       domain.NewEntity(),
		ID:           id,
		Name:         name,
		PolicyType:   policyType,
		RefundPeriod: period,
		Conditions:   conditions,
		Status:       StatusActive,
	}
	p.Record(NewPolicyCreated(id, name, policyType, period.Days))
	return p
}

// UpdateTerms replaces the refund period and conditions.
func (p *RefundPolicy) UpdateTerms(period domain.RefundPeriod, conditions string) error {
	if p.Status != StatusActive {
		return fmt.Errorf("%w: cannot update deprecated or archived policy", domain.ErrInvalidTransition)
	}
	p.RefundPeriod = period
	p.Conditions = conditions
	p.Record(NewPolicyUpdated(p.ID, p.Name, p.PolicyType, period.Days, conditions, string(p.Status)))
	return nil
}

// Rename changes the policy name.
func (p *RefundPolicy) Rename(name string) error {
	if p.Status != StatusActive {
		return fmt.Errorf("%w: cannot rename deprecated or archived policy", domain.ErrInvalidTransition)
	}
	p.Name = name
	p.Touch()
	return nil
}

// Deprecate moves an active policy out of service.
func (p *RefundPolicy) Deprecate() error {
	if p.Status == StatusDeprecated {
		return fmt.Errorf("%w: policy is already deprecated", domain.ErrInvalidTransition)
	}
	if p.Status == StatusArchived {
		return fmt.Errorf("%w: cannot deprecate archived policy", domain.ErrInvalidTransition)
	}
	p.Status = StatusDeprecated
	p.Record(NewPolicyDeprecated(p.ID, p.Name))
	return nil
}

// Reactivate returns a deprecated policy to service.
func (p *RefundPolicy) Reactivate() error {
	if p.Status != StatusDeprecated {
		return fmt.Errorf("%w: can only reactivate deprecated policies", domain.ErrInvalidTransition)
	}
	p.Status = StatusActive
	p.Record(NewPolicyReactivated(p.ID, p.Name))
	return nil
}

// Archive retires the policy permanently.
func (p *RefundPolicy) Archive() error {
	if p.Status == StatusArchived {
		return fmt.Errorf("%w: policy is already archived", domain.ErrInvalidTransition)
	}
	p.Status = StatusArchived
	p.Touch()
	return nil
}

// IsRefundAllowed evaluates the policy rules for a purchase.
func (p *RefundPolicy) IsRefundAllowed(purchaseDate, now time.Time, progress float64) bool {
	if p.Status != StatusActive {
		return false
	}
	if p.PolicyType == TypeNoRefund {
		return false
	}
	daysSince := int(now.Sub(purchaseDate).Hours() / 24)
	if daysSince > p.RefundPeriod.Days {
		return false
	}
	return progress < 100
}

// CanBeAssigned reports whether new courses may reference this policy.
func (p *RefundPolicy) CanBeAssigned() bool { return p.Status == StatusActive }
