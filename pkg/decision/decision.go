// Package decision turns a routing node into the next activity instance of a person.
package decision

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/healthdes/pkg/activity"
	"github.com/aretw0/healthdes/pkg/collector"
	"github.com/aretw0/healthdes/pkg/routing"
	"github.com/aretw0/healthdes/pkg/sim"
)

// ParamPerson is the parameter every instance receives with its owner's id.
const ParamPerson = "person"

// Decider picks the activity owner performs when leaving node. A nil instance with a nil
// error means the traversal ends.
type Decider interface {
	Next(env *sim.Environment, owner activity.Owner, node string) (*activity.Instance, error)
}

// Func adapts a function to the Decider interface.
type Func func(env *sim.Environment, owner activity.Owner, node string) (*activity.Instance, error)

func (f Func) Next(env *sim.Environment, owner activity.Owner, node string) (*activity.Instance, error) {
	return f(env, owner, node)
}

// Default follows the routing graph without making a choice: a node leads to the activity on
// its outgoing edge.
type Default struct {
	Graph     *routing.Graph
	Collector collector.Collector
	Logger    *slog.Logger
}

// Next resolves node through the graph and builds a fresh instance for owner.
func (d *Default) Next(env *sim.Environment, owner activity.Owner, node string) (*activity.Instance, error) {
	desc, err := d.Graph.GetActivity(node)
	if err != nil {
		return nil, err
	}
	if desc.Absent() {
		return nil, nil
	}
	return Instantiate(env, owner, desc, d.Collector, d.Logger)
}

// Instantiate builds an instance of desc for owner with its own channel pair and its own copy
// of the template params, bound to the owner's id.
func Instantiate(env *sim.Environment, owner activity.Owner, desc routing.Descriptor, c collector.Collector, logger *slog.Logger) (*activity.Instance, error) {
	if c == nil {
		c = collector.Nop{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	params := make(map[string]any, len(desc.Params)+1)
	for k, v := range desc.Params {
		params[k] = v
	}
	params[ParamPerson] = owner.ID()

	behavior, err := desc.Factory(activity.Config{
		Name:      desc.Name,
		Env:       env,
		Owner:     owner,
		Params:    params,
		Collector: c,
		Logger:    logger.With("activity", desc.Name, "person", owner.ID()),
	})
	if err != nil {
		return nil, fmt.Errorf("activity %q: %w", desc.Name, err)
	}
	return activity.NewInstance(desc.Name, desc.NextNode, behavior, params, activity.NewChannels(env)), nil
}
