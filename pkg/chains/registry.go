package chains

import (
	"fmt"
	"sync"
)

// Registry manages namespace adapters. Adapters register under their CAIP-2
// namespace; resolution of any chain id in an unregistered namespace fails.
type Registry struct {
	adapters map[string]NamespaceAdapter
	mu       sync.RWMutex
}

var (
	globalRegistry     *Registry
	globalRegistryOnce sync.Once
)

// NewRegistry creates an empty registry. Most callers want the global
// registry; fresh instances exist for tests and embedding.
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[string]NamespaceAdapter),
	}
}

// InitGlobalRegistry initializes the global namespace registry
func InitGlobalRegistry() *Registry {
	globalRegistryOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// GetGlobalRegistry returns the global namespace registry (nil if not initialized)
func GetGlobalRegistry() *Registry {
	return globalRegistry
}

// Register registers a namespace adapter (uses adapter.Namespace() as key).
// If an adapter already exists for the namespace, it is replaced (idempotent).
func (r *Registry) Register(adapter NamespaceAdapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.adapters[adapter.Namespace()] = adapter
	return nil
}

// Get retrieves an adapter by CAIP-2 namespace
func (r *Registry) Get(namespace string) (NamespaceAdapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, exists := r.adapters[namespace]
	if !exists {
		return nil, fmt.Errorf("no adapter registered for namespace: %s", namespace)
	}

	return adapter, nil
}

// SupportedNamespaces returns a list of all registered namespaces
func (r *Registry) SupportedNamespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	namespaces := make([]string, 0, len(r.adapters))
	for namespace := range r.adapters {
		namespaces = append(namespaces, namespace)
	}
	return namespaces
}

// IsSupported checks if a namespace has a registered adapter
func (r *Registry) IsSupported(namespace string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.adapters[namespace]
	return exists
}

// Unregister removes a namespace adapter (useful for testing)
func (r *Registry) Unregister(namespace string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.adapters, namespace)
}

// ResetGlobalRegistry resets the global registry (useful for testing)
func ResetGlobalRegistry() {
	globalRegistry = nil
	globalRegistryOnce = sync.Once{}
}
