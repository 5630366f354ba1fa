package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Backend names understood by DefaultRegistry.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendCache  = "cache"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Options carries backend settings. Each backend reads the fields it needs.
type Options struct {
	// Path is the file path for the file backend and the DSN for sqlite.
	Path string
	// Addr is the redis address.
	Addr string
	// Prefix namespaces redis keys.
	Prefix string
}

// Factory opens a backend.
type Factory func(ctx context.Context, opts Options) (Store, error)

// Registry maps backend names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry holding every built-in backend.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(BackendMemory, func(context.Context, Options) (Store, error) {
		return NewMemory(), nil
	})
	r.MustRegister(BackendFile, func(_ context.Context, opts Options) (Store, error) {
		return NewFile(opts.Path)
	})
	r.MustRegister(BackendCache, func(_ context.Context, opts Options) (Store, error) {
		return NewCache(), nil
	})
	r.MustRegister(BackendSQLite, func(ctx context.Context, opts Options) (Store, error) {
		return OpenSQLite(ctx, opts.Path)
	})
	r.MustRegister(BackendRedis, func(ctx context.Context, opts Options) (Store, error) {
		return DialRedis(ctx, opts.Addr, opts.Prefix)
	})
	return r
}

// Register adds a factory by name. Duplicate names return an error.
func (r *Registry) Register(name string, factory Factory) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("store: backend name is required")
	}
	if factory == nil {
		return fmt.Errorf("store: backend %q factory is required", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("store: backend %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// Open builds the backend registered under name.
func (r *Registry) Open(ctx context.Context, name string, opts Options) (Store, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	r.mu.RLock()
	factory, ok := r.factories[key]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return factory(ctx, opts)
}

// List returns the sorted backend names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
