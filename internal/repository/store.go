// internal/repository/store.go
package repository

// store is the minimal keyed container repositories build on. Locking and
// index maintenance live in the per-aggregate repositories.
type store[T any] struct {
	items map[string]T
}

func newStore[T any]() store[T] {
	return store[T]{items: make(map[string]T)}
}

func (s *store[T]) get(id string) (T, bool) {
	v, ok := s.items[id]
	return v, ok
}

func (s *store[T]) put(id string, v T) {
	s.items[id] = v
}

func (s *store[T]) remove(id string) {
	delete(s.items, id)
}

func (s *store[T]) all() []T {
	out := make([]T, 0, len(s.items))
	for _, v := range s.items {
		out = append(out, v)
	}
	return out
}

func (s *store[T]) size() int {
	return len(s.items)
}

// addToIndex and removeFromIndex maintain multi-valued index maps.

func addToIndex(idx map[string][]string, key, id string) {
	for _, existing := range idx[key] {
		if existing == id {
			return
		}
	}
	idx[key] = append(idx[key], id)
}

func removeFromIndex(idx map[string][]string, key, id string) {
	ids := idx[key]
	for i, existing := range ids {
		if existing == id {
			idx[key] = append(ids[:i], ids[i+1:]...)
			if len(idx[key]) == 0 {
				delete(idx, key)
			}
			return
		}
	}
}
