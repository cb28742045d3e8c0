// Package routing describes where people go: decision points joined by directed edges, each
// edge labelled with the name of the activity performed while moving along it.
//
//	S --check-in--> M --treatment--> E
//
// A person standing on a decision point asks the graph for the next activity. A node with no
// outgoing edge ends the traversal.
package routing

import (
	"errors"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/aretw0/healthdes/pkg/activity"
	"github.com/aretw0/healthdes/pkg/domain"
	"github.com/aretw0/healthdes/pkg/registry"
	"github.com/aretw0/healthdes/pkg/schema"
)

// None is the empty node: no successor.
const None = ""

// Edge is a directed, activity-labelled link between two decision points.
type Edge struct {
	Activity string
	From     string
	To       string
}

// Descriptor is the answer to GetActivity. The zero value is the absent descriptor.
type Descriptor struct {
	Name     string
	NextNode string
	Factory  activity.Factory
	Params   map[string]any
}

// Absent reports whether there is no next activity.
func (d Descriptor) Absent() bool {
	return d.Name == ""
}

// Graph is a routing graph bound to an activity registry.
type Graph struct {
	mu        sync.RWMutex
	reg       *registry.Registry
	decisions map[string]struct{}
	out       map[string][]Edge
	edges     []Edge
}

// New creates an empty graph resolving activity names through reg.
// A nil reg gets a fresh registry.
func New(reg *registry.Registry) *Graph {
	if reg == nil {
		reg = registry.New()
	}
	return &Graph{
		reg:       reg,
		decisions: make(map[string]struct{}),
		out:       make(map[string][]Edge),
	}
}

// Registry returns the registry activity names are resolved against.
func (g *Graph) Registry() *registry.Registry {
	return g.reg
}

// RegisterActivity registers an activity template with the graph's registry.
func (g *Graph) RegisterActivity(name string, factory activity.Factory, params map[string]any, s ...schema.Schema) error {
	return g.reg.Register(name, factory, params, s...)
}

// AddDecision adds a decision point and returns its id.
func (g *Graph) AddDecision(id string) (string, error) {
	if id == None {
		return "", errors.New("decision id must not be empty")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.decisions[id]; exists {
		return "", fmt.Errorf("decision %q: %w", id, domain.ErrDuplicateDecision)
	}
	g.decisions[id] = struct{}{}
	return id, nil
}

// AddActivity adds an edge labelled name from one decision point to another. The activity
// name is resolved lazily, so edges may be added before the activity is registered.
func (g *Graph) AddActivity(name, from, to string) (Edge, error) {
	if name == "" {
		return Edge{}, errors.New("activity name must not be empty")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, node := range []string{from, to} {
		if _, ok := g.decisions[node]; !ok {
			return Edge{}, fmt.Errorf("activity %q: decision %q: %w", name, node, domain.ErrUnknownDecision)
		}
	}
	e := Edge{Activity: name, From: from, To: to}
	g.out[from] = append(g.out[from], e)
	g.edges = append(g.edges, e)
	return e, nil
}

// GetActivity resolves the activity leaving node. It returns the absent descriptor for None
// and for nodes without outgoing edges. When a node has several outgoing edges the most
// recently added one is used.
func (g *Graph) GetActivity(node string) (Descriptor, error) {
	if node == None {
		return Descriptor{}, nil
	}

	g.mu.RLock()
	_, known := g.decisions[node]
	out := g.out[node]
	g.mu.RUnlock()

	if !known {
		return Descriptor{}, fmt.Errorf("decision %q: %w", node, domain.ErrUnknownDecision)
	}
	if len(out) == 0 {
		return Descriptor{}, nil
	}

	e := out[len(out)-1]
	entry, err := g.reg.Lookup(e.Activity)
	if err != nil {
		return Descriptor{}, err
	}
	return Descriptor{
		Name:     e.Activity,
		NextNode: e.To,
		Factory:  entry.Factory,
		Params:   maps.Clone(entry.Params),
	}, nil
}

// Decisions returns the decision ids in sorted order.
func (g *Graph) Decisions() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := make([]string, 0, len(g.decisions))
	for id := range g.decisions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Edges returns every edge in insertion order.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Edge(nil), g.edges...)
}

// Outgoing returns the edges leaving node in insertion order.
func (g *Graph) Outgoing(node string) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Edge(nil), g.out[node]...)
}
