// internal/app/policy.go
package app

import (
	"context"

	"learnhub/internal/domain"
	"learnhub/internal/domain/policy"
	"learnhub/internal/eventbus"
	"learnhub/internal/eventlog"
	"learnhub/internal/repository"
)

type CreatePolicyCommand struct {
	Name       string
	PolicyType string
	RefundDays int
	Conditions string
}

type UpdatePolicyCommand struct {
	PolicyID   string
	RefundDays int
	Conditions string
}

// PolicyService handles refund policy lifecycle operations.
type PolicyService struct {
	policies *repository.PolicyRepository
	log      *eventlog.Log
	bus      *eventbus.Bus
}

func NewPolicyService(policies *repository.PolicyRepository, log *eventlog.Log, bus *eventbus.Bus) *PolicyService {
	return &PolicyService{policies: policies, log: log, bus: bus}
}

// CreatePolicy creates an active policy with validated terms.
func (s *PolicyService) CreatePolicy(ctx context.Context, cmd CreatePolicyCommand) (Result, error) {
	name, err := policy.NewName(cmd.Name)
	if err != nil {
		return Result{}, err
	}
	policyType, err := policy.ParseType(cmd.PolicyType)
	if err != nil {
		return Result{}, err
	}
	period, err := domain.NewRefundPeriod(cmd.RefundDays)
	if err != nil {
		return Result{}, err
	}
	conditions, err := policy.NewConditions(cmd.Conditions)
	if err != nil {
		return Result{}, err
	}

	p := policy.Create(name, policyType, period, conditions)
	if err := s.policies.Save(p); err != nil {
		return Result{}, err
	}
	publish(ctx, s.log, s.bus, p)
	return Result{ID: string(p.ID), Status: string(p.Status), Message: "policy created"}, nil
}

// UpdatePolicy replaces the refund period and conditions of an active policy.
func (s *PolicyService) UpdatePolicy(ctx context.Context, cmd UpdatePolicyCommand) (Result, error) {
	p, err := s.policies.ByID(domain.PolicyID(cmd.PolicyID))
	if err != nil {
		return Result{}, err
	}
	period, err := domain.NewRefundPeriod(cmd.RefundDays)
	if err != nil {
		return Result{}, err
	}
	conditions, err := policy.NewConditions(cmd.Conditions)
	if err != nil {
		return Result{}, err
	}
	if err := p.UpdateTerms(period, conditions); err != nil {
		return Result{}, err
	}
	if err := s.policies.Save(p); err != nil {
		return Result{}, err
	}
	publish(ctx, s.log, s.bus, p)
	return Result{ID: string(p.ID), Status: string(p.Status), Message: "policy updated"}, nil
}

// DeprecatePolicy takes the policy out of service. Courses keep their
// assignment; refunds under it stop being allowed.
func (s *PolicyService) DeprecatePolicy(ctx context.Context, policyID string) (Result, error) {
	p, err := s.policies.ByID(domain.PolicyID(policyID))
	if err != nil {
		return Result{}, err
	}
	if err := p.Deprecate(); err != nil {
		return Result{}, err
	}
	if err := s.policies.Save(p); err != nil {
		return Result{}, err
	}
	publish(ctx, s.log, s.bus, p)
	return Result{ID: string(p.ID), Status: string(p.Status), Message: "policy deprecated"}, nil
}

// ReactivatePolicy returns a deprecated policy to service.
func (s *PolicyService) ReactivatePolicy(ctx context.Context, policyID string) (Result, error) {
	p, err := s.policies.ByID(domain.PolicyID(policyID))
	if err != nil {
		return Result{}, err
	}
	if err := p.Reactivate(); err != nil {
		return Result{}, err
	}
	if err := s.policies.Save(p); err != nil {
		return Result{}, err
	}
	publish(ctx, s.log, s.bus, p)
	return Result{ID: string(p.ID), Status: string(p.Status), Message: "policy reactivated"}, nil
}
