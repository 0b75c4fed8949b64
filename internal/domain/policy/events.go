// internal/domain/policy/events.go
package policy

import "learnhub/internal/domain"

// Event type tags for the refund policy aggregate.
const (
	EventPolicyCreated     = "PolicyCreated"
	EventPolicyUpdated     = "PolicyUpdated"
	EventPolicyDeprecated  = "PolicyDeprecated"
	EventPolicyReactivated = "PolicyReactivated"
)

// PolicyCreated is queued when a refund policy is created.
type PolicyCreated struct {
	domain.EventBase
	PolicyID         domain.PolicyID
	Name             string
	PolicyType       Type
	RefundPeriodDays int
}

func NewPolicyCreated(id domain.PolicyID, name string, policyType Type, days int) PolicyCreated {
	return PolicyCreated{
		EventBase:        domain.NewEventBase("RefundPolicy", id.String()),
		PolicyID:         id,
		Name:             name,
		PolicyType:       policyType,
		RefundPeriodDays: days,
	}
}

func (e PolicyCreated) EventType() string { return EventPolicyCreated }

func (e PolicyCreated) Payload() map[string]any {
	p := e.BasePayload(EventPolicyCreated)
	p["policy_id"] = e.PolicyID.String()
	p["name"] = e.Name
	p["policy_type"] = string(e.PolicyType)
	p["refund_period_days"] = e.RefundPeriodDays
	return p
}

// PolicyUpdated is queued when policy terms change. Status is carried so the
// usage projection can track deprecate/reactivate flips published through the
// same tag.
type PolicyUpdated struct {
	domain.EventBase
	PolicyID         domain.PolicyID
	Name             string
	PolicyType       Type
	RefundPeriodDays int
	NewConditions    string
	Status           string
}

func NewPolicyUpdated(id domain.PolicyID, name string, policyType Type, days int, conditions, status string) PolicyUpdated {
	return PolicyUpdated{
		EventBase:        domain.NewEventBase("RefundPolicy", id.String()),
		PolicyID:         id,
		Name:             name,
		PolicyType:       policyType,
		RefundPeriodDays: days,
		NewConditions:    conditions,
		Status:           status,
	}
}

func (e PolicyUpdated) EventType() string { return EventPolicyUpdated }

func (e PolicyUpdated) Payload() map[string]any {
	p := e.BasePayload(EventPolicyUpdated)
	p["policy_id"] = e.PolicyID.String()
	p["name"] = e.Name
	p["policy_type"] = string(e.PolicyType)
	p["refund_period_days"] = e.RefundPeriodDays
	p["new_conditions"] = e.NewConditions
	p["status"] = e.Status
	return p
}

// PolicyDeprecated is queued when a policy is taken out of service.
type PolicyDeprecated struct {
	domain.EventBase
	PolicyID domain.PolicyID
	Name     string
}

func NewPolicyDeprecated(id domain.PolicyID, name string) PolicyDeprecated {
	return PolicyDeprecated{
		EventBase: domain.NewEventBase("RefundPolicy", id.String()),
		PolicyID:  id,
		Name:      name,
	}
}

func (e PolicyDeprecated) EventType() string { return EventPolicyDeprecated }

func (e PolicyDeprecated) Payload() map[string]any {
	p := e.BasePayload(EventPolicyDeprecated)
	p["policy_id"] = e.PolicyID.String()
	p["name"] = e.Name
	return p
}

// PolicyReactivated is queued when a deprecated policy returns to service.
type PolicyReactivated struct {
	domain.EventBase
	PolicyID domain.PolicyID
	Name     string
}

func NewPolicyReactivated(id domain.PolicyID, name string) PolicyReactivated {
	return PolicyReactivated{
		EventBase: domain.NewEventBase("RefundPolicy", id.String()),
		PolicyID:  id,
		Name:      name,
	}
}

func (e PolicyReactivated) EventType() string { return EventPolicyReactivated }

func (e PolicyReactivated) Payload() map[string]any {
	p := e.BasePayload(EventPolicyReactivated)
	p["policy_id"] = e.PolicyID.String()
	p["name"] = e.Name
	return p
}
