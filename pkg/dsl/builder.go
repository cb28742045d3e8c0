package dsl

import (
	"errors"

	"github.com/aretw0/healthdes/pkg/activity"
	"github.com/aretw0/healthdes/pkg/registry"
	"github.com/aretw0/healthdes/pkg/routing"
	"github.com/aretw0/healthdes/pkg/schema"
)

type activityDef struct {
	name    string
	factory activity.Factory
	params  map[string]any
	schema  []schema.Schema
}

// Builder manages the graph construction.
type Builder struct {
	reg        *registry.Registry
	activities []activityDef
	decisions  map[string]*DecisionBuilder
	order      []string
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		decisions: make(map[string]*DecisionBuilder),
	}
}

// WithRegistry makes Build register activities into reg instead of a fresh registry.
func (b *Builder) WithRegistry(reg *registry.Registry) *Builder {
	b.reg = reg
	return b
}

// Activity declares an activity template.
func (b *Builder) Activity(name string, factory activity.Factory, params map[string]any, s ...schema.Schema) *Builder {
	b.activities = append(b.activities, activityDef{name: name, factory: factory, params: params, schema: s})
	return b
}

// Decision declares a decision point.
// If the decision already exists, it returns the existing builder.
func (b *Builder) Decision(id string) *DecisionBuilder {
	if db, ok := b.decisions[id]; ok {
		return db
	}
	db := &DecisionBuilder{id: id, builder: b}
	b.decisions[id] = db
	b.order = append(b.order, id)
	return db
}

// Route adds an edge labelled name from one decision point to another.
func (b *Builder) Route(name, from, to string) *Builder {
	b.Decision(from).Then(name, to)
	return b
}

// Build compiles the declarations into a routing graph.
func (b *Builder) Build() (*routing.Graph, error) {
	reg := b.reg
	if reg == nil {
		reg = registry.New()
	}
	g := routing.New(reg)

	var errs []error
	for _, a := range b.activities {
		if err := g.RegisterActivity(a.name, a.factory, a.params, a.schema...); err != nil {
			errs = append(errs, err)
		}
	}

	// Targets are declared on demand while walking, so iterate by index.
	for i := 0; i < len(b.order); i++ {
		for _, e := range b.decisions[b.order[i]].edges {
			b.Decision(e.to)
		}
	}
	for _, id := range b.order {
		if _, err := g.AddDecision(id); err != nil {
			errs = append(errs, err)
		}
	}
	for _, id := range b.order {
		for _, e := range b.decisions[id].edges {
			if _, err := g.AddActivity(e.activity, id, e.to); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return g, nil
}

// BuildFrom builds the graph and validates it for people starting at start.
func (b *Builder) BuildFrom(start string) (*routing.Graph, error) {
	g, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := g.Validate(start); err != nil {
		return nil, err
	}
	return g, nil
}
