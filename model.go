package healthdes

import (
	"fmt"

	"github.com/aretw0/healthdes/internal/config"
	"github.com/aretw0/healthdes/pkg/behaviors"
	"github.com/aretw0/healthdes/pkg/dsl"
)

// DatasetResources is the dataset periodic resource monitoring writes to.
const DatasetResources = "resources"

// FromModel builds a ready-to-run simulation from a model description: resources, the
// routing graph made of stock behaviors, arrival generators and optional resource
// monitoring. Options passed by the caller take precedence over the model's name and run id.
func FromModel(m *config.Model, opts ...Option) (*Simulation, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}

	opts = append([]Option{WithName(m.Name), WithRunID(m.Run)}, opts...)
	s := newSimulation(opts)

	res := behaviors.NewResources(s.env)
	for _, r := range m.Resources {
		if err := res.Add(r.Name, r.Capacity); err != nil {
			return nil, err
		}
	}

	catalogue := behaviors.Catalogue(res)
	b := dsl.New()
	for _, a := range m.Activities {
		kind, ok := catalogue[a.Behavior]
		if !ok {
			return nil, fmt.Errorf("activity %q: unknown behavior %q", a.Name, a.Behavior)
		}
		b.Activity(a.Name, kind.Factory, a.Params, kind.Schema)
	}
	for _, d := range m.Decisions {
		b.Decision(d)
	}
	for _, r := range m.Routes {
		b.Route(r.Activity, r.From, r.To)
	}
	g, err := b.Build()
	if err != nil {
		return nil, err
	}

	starts := make([]string, 0, len(m.People))
	for _, p := range m.People {
		starts = append(starts, p.Start)
	}
	if err := g.Validate(starts...); err != nil {
		return nil, err
	}
	s.bind(g)

	for _, p := range m.People {
		if err := s.Arrivals(p.Type, p.Start, p.Count, p.Interval, p.Attributes); err != nil {
			return nil, err
		}
	}

	if m.Monitor > 0 && len(m.Resources) > 0 {
		names := res.Names()
		err := s.Monitor(DatasetResources, m.Monitor, func() map[string]any {
			row := make(map[string]any, 2*len(names))
			for _, name := range names {
				r, _ := res.Get(name)
				row[name+"_in_use"] = r.InUse()
				row[name+"_waiting"] = r.Waiting()
			}
			return row
		})
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}
