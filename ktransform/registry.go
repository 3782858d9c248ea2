package ktransform

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	ErrUnknownTransformation = errors.New("ktransform: unknown transformation")
	ErrAlreadyRegistered     = errors.New("ktransform: transformation already registered")
	ErrInvalidID             = errors.New("ktransform: invalid transformation id")
)

// Registry resolves stable transformation identifiers to factories at chain
// build time. It is safe for concurrent use, so several tasks can build chains
// from one registry.
type Registry struct {
	mu           sync.RWMutex
	factories    map[string]Factory
	interceptors []Interceptor
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory under id.
func (r *Registry) Register(id string, factory Factory) error {
	if id == "" || strings.ContainsAny(id, " \t\n\r") {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	if factory == nil {
		return fmt.Errorf("%w: %q has nil factory", ErrInvalidID, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[id]; exists {
		return fmt.Errorf("%w: %q", ErrAlreadyRegistered, id)
	}
	r.factories[id] = factory
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(id string, factory Factory) {
	if err := r.Register(id, factory); err != nil {
		panic(err)
	}
}

// Use installs interceptors around every transformation created afterwards.
func (r *Registry) Use(interceptors ...Interceptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interceptors = append(r.interceptors, interceptors...)
}

// New instantiates the transformation registered under id.
func (r *Registry) New(id string) (Transformation, error) {
	r.mu.RLock()
	factory, ok := r.factories[id]
	interceptors := r.interceptors
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransformation, id)
	}

	t := factory()
	if t == nil {
		return nil, fmt.Errorf("factory for %q returned nil transformation", id)
	}
	if len(interceptors) > 0 {
		t = Intercept(t, interceptors...)
	}
	return t, nil
}

// IDs returns all registered identifiers in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
