// internal/repository/policy.go
package repository

import (
	"fmt"
	"sync"

	"learnhub/internal/domain"
	"learnhub/internal/domain/policy"
)

// PolicyRepository stores refund policies with a unique name index plus
// type and status membership indexes.
type policyKeys struct {
	name       string
	policyType string
	status     string
}

type PolicyRepository struct {
	mu       sync.Mutex
	policies store[*policy.RefundPolicy]
	byName   map[string]string
	byType   map[string][]string
	byStatus map[string][]string
	// indexed remembers the keys each id was last indexed under, so a Save
	// after in-place mutation still clears stale entries.
	indexed map[string]policyKeys
}

func NewPolicyRepository() *PolicyRepository {
	return &PolicyRepository{
		policies: newStore[*policy.RefundPolicy](),
		byName:   make(map[string]string),
		byType:   make(map[string][]string),
		byStatus: make(map[string][]string),
		indexed:  make(map[string]policyKeys),
	}
}

// Save upserts the policy, enforcing name uniqueness across other ids.
func (r *PolicyRepository) Save(p *policy.RefundPolicy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byName[p.Name]; ok && existing != string(p.ID) {
		return fmt.Errorf("%w: policy name %q already in use", domain.ErrConflict, p.Name)
	}
	r.reindex(p)
	r.policies.put(string(p.ID), p)
	return nil
}

func (r *PolicyRepository) reindex(p *policy.RefundPolicy) {
	id := string(p.ID)
	if prev, ok := r.indexed[id]; ok {
		if prev.name != p.Name {
			delete(r.byName, prev.name)
		}
		if prev.policyType != string(p.PolicyType) {
			removeFromIndex(r.byType, prev.policyType, id)
		}
		if prev.status != string(p.Status) {
			removeFromIndex(r.byStatus, prev.status, id)
		}
	}
	r.byName[p.Name] = id
	addToIndex(r.byType, string(p.PolicyType), id)
	addToIndex(r.byStatus, string(p.Status), id)
	r.indexed[id] = policyKeys{name: p.Name, policyType: string(p.PolicyType), status: string(p.Status)}
}

// ByID fetches a policy or ErrNotFound.
func (r *PolicyRepository) ByID(id domain.PolicyID) (*policy.RefundPolicy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.policies.get(string(id))
	if !ok {
		return nil, fmt.Errorf("%w: policy %s", domain.ErrNotFound, id)
	}
	return p, nil
}

// ByName fetches a policy through the name index or ErrNotFound.
func (r *PolicyRepository) ByName(name string) (*policy.RefundPolicy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: no policy named %q", domain.ErrNotFound, name)
	}
	p, _ := r.policies.get(id)
	return p, nil
}

// ByType lists policies of one refund type.
func (r *PolicyRepository) ByType(policyType policy.Type) []*policy.RefundPolicy {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(r.byType[string(policyType)])
}

// ByStatus lists policies in one lifecycle status.
func (r *PolicyRepository) ByStatus(status policy.Status) []*policy.RefundPolicy {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(r.byStatus[string(status)])
}

func (r *PolicyRepository) collect(ids []string) []*policy.RefundPolicy {
	out := make([]*policy.RefundPolicy, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.policies.get(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// Delete removes the policy and all its index entries.
func (r *PolicyRepository) Delete(id domain.PolicyID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.policies.get(string(id)); ok {
		keys := r.indexed[string(id)]
		delete(r.byName, keys.name)
		removeFromIndex(r.byType, keys.policyType, string(id))
		removeFromIndex(r.byStatus, keys.status, string(id))
		delete(r.indexed, string(id))
		r.policies.remove(string(id))
	}
}

// All returns every stored policy.
func (r *PolicyRepository) All() []*policy.RefundPolicy {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.policies.all()
}
