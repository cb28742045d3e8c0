// Package registry holds the activity templates a routing graph refers to by name.
package registry

import (
	"errors"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/aretw0/healthdes/pkg/activity"
	"github.com/aretw0/healthdes/pkg/domain"
	"github.com/aretw0/healthdes/pkg/schema"
)

// Entry is a registered activity template.
type Entry struct {
	Name    string
	Factory activity.Factory
	Params  map[string]any
	Schema  schema.Schema
}

// Registry manages the available activity templates.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
	}
}

// Register adds an activity template. A name can only be registered once; a duplicate
// leaves the existing entry untouched and fails with domain.ErrDuplicateActivity.
// When a schema is given, params are validated against it.
func (r *Registry) Register(name string, factory activity.Factory, params map[string]any, s ...schema.Schema) error {
	if name == "" {
		return errors.New("activity name must not be empty")
	}
	if factory == nil {
		return fmt.Errorf("activity %q: factory must not be nil", name)
	}

	var sch schema.Schema
	if len(s) > 0 {
		sch = s[0]
		if err := schema.Validate(sch, params); err != nil {
			return fmt.Errorf("activity %q: invalid params: %w", name, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("activity %q: %w", name, domain.ErrDuplicateActivity)
	}
	r.entries[name] = Entry{
		Name:    name,
		Factory: factory,
		Params:  maps.Clone(params),
		Schema:  sch,
	}
	return nil
}

// Lookup returns the entry registered under name. The returned params are a copy.
func (r *Registry) Lookup(name string) (Entry, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return Entry{}, fmt.Errorf("activity %q: %w", name, domain.ErrUnknownActivity)
	}
	entry.Params = maps.Clone(entry.Params)
	return entry, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
