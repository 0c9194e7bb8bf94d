package resource

import (
	"sort"
	"sync"
)

// Registry maps resource type names to factories. It is an explicit
// value constructed at process start; registration happens in startup
// code, never as an import side effect. Types are never unregistered.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// NewDefaultRegistry creates a registry with the built-in variants
// registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	// The built-in names cannot collide; ignore the errors.
	_ = r.Register(TypeAppService, NewAppService)
	_ = r.Register(TypeStorageAccount, NewStorageAccount)
	_ = r.Register(TypeCacheDB, NewCacheDB)
	return r
}

// Register adds a factory for typeName. It returns a DUPLICATE_TYPE
// error if typeName is already registered.
func (r *Registry) Register(typeName string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[typeName]; exists {
		return NewDuplicateTypeError(typeName)
	}
	r.factories[typeName] = factory
	return nil
}

// Resolve returns the factory for typeName, or an UNKNOWN_TYPE error.
func (r *Registry) Resolve(typeName string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[typeName]
	if !ok {
		return nil, NewUnknownTypeError(typeName)
	}
	return factory, nil
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
