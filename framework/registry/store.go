package registry

import (
	"github.com/km-arc/go-spring/framework/component"
)

// Store holds registered descriptors keyed by name. Names are unique;
// re-registering a name replaces the prior entry rather than duplicating it.
//
// Insertion order is preserved so that scans (type lookup, eager start) are
// deterministic across runs.
type Store struct {
	entries map[string]*component.Descriptor
	order   []string
}

// NewStore creates an empty descriptor store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*component.Descriptor)}
}

// Put inserts the descriptor under name, overwriting any existing entry of
// the same name. Overwriting keeps the name's original position in the scan
// order.
func (s *Store) Put(name string, d *component.Descriptor) {
	if _, exists := s.entries[name]; !exists {
		s.order = append(s.order, name)
	}
	s.entries[name] = d
}

// Get returns the descriptor for name.
func (s *Store) Get(name string) (*component.Descriptor, bool) {
	d, ok := s.entries[name]
	return d, ok
}

// Has reports whether a descriptor is registered under name.
func (s *Store) Has(name string) bool {
	_, ok := s.entries[name]
	return ok
}

// Remove deletes the entry for name, if present.
func (s *Store) Remove(name string) {
	if _, ok := s.entries[name]; !ok {
		return
	}
	delete(s.entries, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of registered descriptors.
func (s *Store) Len() int { return len(s.entries) }

// Names returns the registered names in insertion order.
func (s *Store) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Each walks the entries in insertion order. Returning false stops the walk.
func (s *Store) Each(fn func(name string, d *component.Descriptor) bool) {
	for _, name := range s.order {
		if !fn(name, s.entries[name]) {
			return
		}
	}
}
