package mutation

import (
	"fmt"
	"sync"
)

// Registry is a thread-safe, name-keyed collection of declared mutations.
// Only successfully declared mutations can be registered.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Mutation
	order  []string
}

// NewRegistry creates a registry holding the given mutations.
func NewRegistry(ms ...*Mutation) (*Registry, error) {
	r := &Registry{byName: make(map[string]*Mutation, len(ms))}
	for _, m := range ms {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds m. Names must be unique within a registry.
func (r *Registry) Register(m *Mutation) error {
	if m == nil {
		return ErrNilMutation
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[m.name]; exists {
		return fmt.Errorf("%w: %q", ErrAlreadyRegistered, m.name)
	}
	r.byName[m.name] = m
	r.order = append(r.order, m.name)
	return nil
}

// Get returns the mutation registered under name, or an error wrapping
// ErrNotFound.
func (r *Registry) Get(name string) (*Mutation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return m, nil
}

// List returns the registered mutations in registration order.
func (r *Registry) List() []*Mutation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Mutation, len(r.order))
	for i, name := range r.order {
		out[i] = r.byName[name]
	}
	return out
}

// Len returns the number of registered mutations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
