// internal/repository/order.go
package repository

import (
	"fmt"
	"sync"

	"learnhub/internal/domain"
	"learnhub/internal/domain/order"
)

// OrderRepository stores orders with user, course and status membership
// indexes.
type orderKeys struct {
	user    string
	status  string
	courses []string
}

type OrderRepository struct {
	mu       sync.Mutex
	orders   store[*order.Order]
	byUser   map[string][]string
	byCourse map[string][]string
	byStatus map[string][]string
	// indexed remembers the keys each id was last indexed under, so a Save
	// after in-place mutation still clears stale entries.
	indexed map[string]orderKeys
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders:   newStore[*order.Order](),
		byUser:   make(map[string][]string),
		byCourse: make(map[string][]string),
		byStatus: make(map[string][]string),
		indexed:  make(map[string]orderKeys),
	}
}

// Save upserts the order and refreshes its index entries.
func (r *OrderRepository) Save(o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reindex(o)
	r.orders.put(string(o.ID), o)
	return nil
}

func (r *OrderRepository) reindex(o *order.Order) {
	id := string(o.ID)
	if prev, ok := r.indexed[id]; ok {
		if prev.user != string(o.UserID) {
			removeFromIndex(r.byUser, prev.user, id)
		}
		if prev.status != string(o.Status) {
			removeFromIndex(r.byStatus, prev.status, id)
		}
		for _, courseID := range prev.courses {
			removeFromIndex(r.byCourse, courseID, id)
		}
	}
	addToIndex(r.byUser, string(o.UserID), id)
	addToIndex(r.byStatus, string(o.Status), id)
	courses := make([]string, 0, len(o.Items))
	for _, courseID := range o.CourseIDs() {
		addToIndex(r.byCourse, string(courseID), id)
		courses = append(courses, string(courseID))
	}
	r.indexed[id] = orderKeys{user: string(o.UserID), status: string(o.Status), courses: courses}
}

// ByID fetches an order or ErrNotFound.
func (r *OrderRepository) ByID(id domain.OrderID) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders.get(string(id))
	if !ok {
		return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, id)
	}
	return o, nil
}

// ByUser lists a user's orders.
func (r *OrderRepository) ByUser(userID domain.UserID) []*order.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(r.byUser[string(userID)])
}

// ByCourse lists orders containing a course.
func (r *OrderRepository) ByCourse(courseID domain.CourseID) []*order.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(r.byCourse[string(courseID)])
}

// ByStatus lists orders in one lifecycle status.
func (r *OrderRepository) ByStatus(status order.Status) []*order.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(r.byStatus[string(status)])
}

func (r *OrderRepository) collect(ids []string) []*order.Order {
	out := make([]*order.Order, 0, len(ids))
	for _, id := range ids {
		if o, ok := r.orders.get(id); ok {
			out = append(out, o)
		}
	}
	return out
}

// Delete removes the order and all its index entries.
func (r *OrderRepository) Delete(id domain.OrderID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders.get(string(id)); ok {
		keys := r.indexed[string(id)]
		removeFromIndex(r.byUser, keys.user, string(id))
		removeFromIndex(r.byStatus, keys.status, string(id))
		for _, courseID := range keys.courses {
			removeFromIndex(r.byCourse, courseID, string(id))
		}
		delete(r.indexed, string(id))
		r.orders.remove(string(id))
	}
}

// All returns every stored order.
func (r *OrderRepository) All() []*order.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.orders.all()
}
