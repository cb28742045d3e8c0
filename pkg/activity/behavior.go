package activity

import (
	"log/slog"

	"github.com/aretw0/healthdes/pkg/collector"
	"github.com/aretw0/healthdes/pkg/sim"
)

// Behavior holds the domain logic of an activity. Every hook runs inside the activity's own
// process and may suspend it (p.Wait, sim.Resource.Request).
type Behavior interface {
	Initialise(p *sim.Process) error
	SeizeResources(p *sim.Process) error
	Execute(p *sim.Process) error
	ReleaseResources(p *sim.Process) error
	End(p *sim.Process) error
}

// Base implements every hook as a no-op. Embed it to override only what matters.
type Base struct{}

func (Base) Initialise(*sim.Process) error       { return nil }
func (Base) SeizeResources(*sim.Process) error   { return nil }
func (Base) Execute(*sim.Process) error          { return nil }
func (Base) ReleaseResources(*sim.Process) error { return nil }
func (Base) End(*sim.Process) error              { return nil }

// Owner is the person an activity instance is performed for.
type Owner interface {
	ID() uint64
	Kind() string
	Query(key string) (any, error)
}

// Config is what a Factory receives when a person reaches an activity.
type Config struct {
	Name      string // activity name
	Env       *sim.Environment
	Owner     Owner
	Params    map[string]any // private copy of the registered template
	Collector collector.Collector
	Logger    *slog.Logger
}

// Factory builds the behavior of one activity instance.
type Factory func(cfg Config) (Behavior, error)

// Noop is a Factory for activities without domain logic.
func Noop(Config) (Behavior, error) {
	return Base{}, nil
}
