package activity

import (
	"maps"

	"github.com/aretw0/healthdes/pkg/domain"
	"github.com/aretw0/healthdes/pkg/sim"
)

// Channels is the private request/response pair between a person and one activity instance.
type Channels struct {
	ToActivity *sim.Store[domain.Command]
	ToPerson   *sim.Store[domain.Ack]
}

// NewChannels allocates a fresh channel pair.
func NewChannels(env *sim.Environment) Channels {
	return Channels{
		ToActivity: sim.NewStore[domain.Command](env),
		ToPerson:   sim.NewStore[domain.Ack](env),
	}
}

// Instance is one concrete activity a person is about to perform.
type Instance struct {
	Name     string
	NextNode string // routing node reached after this activity; empty means none
	Behavior Behavior
	Params   map[string]any
	Channels Channels
}

// NewInstance builds an instance owning a copy of params.
func NewInstance(name, nextNode string, behavior Behavior, params map[string]any, ch Channels) *Instance {
	if behavior == nil {
		behavior = Base{}
	}
	return &Instance{
		Name:     name,
		NextNode: nextNode,
		Behavior: behavior,
		Params:   maps.Clone(params),
		Channels: ch,
	}
}
