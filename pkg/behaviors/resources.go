// Package behaviors provides the stock activity behaviors models are built from.
//
// Model files name a behavior kind for each activity; Catalogue maps those kinds to a
// factory and the schema its parameters must satisfy.
package behaviors

import (
	"fmt"
	"sort"

	"github.com/aretw0/healthdes/pkg/sim"
)

// Resources is the pool of shared resources (staff, beds, equipment) of one simulation.
type Resources struct {
	env  *sim.Environment
	pool map[string]*sim.Resource
}

// NewResources creates an empty pool bound to env.
func NewResources(env *sim.Environment) *Resources {
	return &Resources{env: env, pool: make(map[string]*sim.Resource)}
}

// Add creates a resource with capacity units.
func (r *Resources) Add(name string, capacity int) error {
	if _, exists := r.pool[name]; exists {
		return fmt.Errorf("resource %q already exists", name)
	}
	res, err := sim.NewResource(r.env, name, capacity)
	if err != nil {
		return err
	}
	r.pool[name] = res
	return nil
}

// Get returns the resource called name.
func (r *Resources) Get(name string) (*sim.Resource, error) {
	res, ok := r.pool[name]
	if !ok {
		return nil, fmt.Errorf("resource %q not found", name)
	}
	return res, nil
}

// Names returns the resource names in sorted order.
func (r *Resources) Names() []string {
	names := make([]string, 0, len(r.pool))
	for name := range r.pool {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
