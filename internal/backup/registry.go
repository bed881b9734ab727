package backup

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry manages backup strategies keyed by database kind.
type Registry struct {
	strategies map[string]Strategy
	mu         sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[string]Strategy),
	}
}

// Register registers a strategy under its kind.
func (r *Registry) Register(strategy Strategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kind := strings.ToLower(strategy.Kind())
	if _, exists := r.strategies[kind]; exists {
		return fmt.Errorf("backup strategy for %s already registered", kind)
	}

	r.strategies[kind] = strategy
	return nil
}

// Get retrieves the strategy for a database kind.
func (r *Registry) Get(kind string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	strategy, exists := r.strategies[strings.ToLower(kind)]
	if !exists {
		return nil, fmt.Errorf("no backup strategy registered for %s", kind)
	}

	return strategy, nil
}

// Kinds returns the registered kinds, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.strategies))
	for kind := range r.strategies {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// DefaultRegistry holds the built-in strategies.
var DefaultRegistry = func() *Registry {
	r := NewRegistry()
	_ = r.Register(MySQL{})
	_ = r.Register(Postgres{})
	return r
}()
