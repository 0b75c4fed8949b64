// internal/repository/user.go
package repository

import (
	"fmt"
	"sync"

	"learnhub/internal/domain"
	"learnhub/internal/domain/user"
)

// UserRepository stores users with a unique email index.
type UserRepository struct {
	mu      sync.Mutex
	users   store[*user.User]
	byEmail map[string]string
	// indexed remembers the email each id was last indexed under, so a
	// Save after an in-place email change still clears the stale key.
	indexed map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   newStore[*user.User](),
		byEmail: make(map[string]string),
		indexed: make(map[string]string),
	}
}

// Save upserts the user, enforcing email uniqueness across other ids.
func (r *UserRepository) Save(u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := u.Email.String()
	if existing, ok := r.byEmail[email]; ok && existing != string(u.ID) {
		return fmt.Errorf("%w: email %s already registered", domain.ErrConflict, email)
	}
	r.reindex(u)
	r.users.put(string(u.ID), u)
	return nil
}

// reindex drops the previously indexed email key when it changed, then
// points the current one at the user.
func (r *UserRepository) reindex(u *user.User) {
	id := string(u.ID)
	if prevEmail, ok := r.indexed[id]; ok && prevEmail != u.Email.String() {
		delete(r.byEmail, prevEmail)
	}
	r.byEmail[u.Email.String()] = id
	r.indexed[id] = u.Email.String()
}

// ByID fetches a user or ErrNotFound.
func (r *UserRepository) ByID(id domain.UserID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users.get(string(id))
	if !ok {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	return u, nil
}

// ByEmail fetches a user through the email index or ErrNotFound.
func (r *UserRepository) ByEmail(email domain.EmailAddress) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[email.String()]
	if !ok {
		return nil, fmt.Errorf("%w: no user with email %s", domain.ErrNotFound, email)
	}
	u, _ := r.users.get(id)
	return u, nil
}

// Delete removes the user and its email index entry. Unknown ids are a no-op.
func (r *UserRepository) Delete(id domain.UserID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users.get(string(id)); ok {
		delete(r.byEmail, r.indexed[string(id)])
		delete(r.indexed, string(id))
		r.users.remove(string(id))
	}
}

// All returns every stored user.
func (r *UserRepository) All() []*user.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users.all()
}

// Count reports the number of stored users.
func (r *UserRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users.size()
}
