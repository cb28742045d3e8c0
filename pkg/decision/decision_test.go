package decision

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/healthdes/pkg/activity"
	"github.com/aretw0/healthdes/pkg/domain"
	"github.com/aretw0/healthdes/pkg/routing"
	"github.com/aretw0/healthdes/pkg/sim"
)

type owner struct{ id uint64 }

func (o owner) ID() uint64                { return o.id }
func (o owner) Kind() string              { return "patient" }
func (o owner) Query(string) (any, error) { return nil, domain.ErrUnknownAttribute }

func graph(t *testing.T, factory activity.Factory) *routing.Graph {
	t.Helper()
	g := routing.New(nil)
	require.NoError(t, g.RegisterActivity("triage", factory, map[string]any{"duration": "5m"}))
	_, _ = g.AddDecision("in")
	_, _ = g.AddDecision("out")
	_, err := g.AddActivity("triage", "in", "out")
	require.NoError(t, err)
	return g
}

func TestDefault_Next(t *testing.T) {
	t.Run("Builds A Fresh Instance Per Call", func(t *testing.T) {
		var seen []activity.Config
		factory := func(cfg activity.Config) (activity.Behavior, error) {
			seen = append(seen, cfg)
			return activity.Base{}, nil
		}
		env := sim.New()
		d := &Default{Graph: graph(t, factory)}

		first, err := d.Next(env, owner{id: 1}, "in")
		require.NoError(t, err)
		second, err := d.Next(env, owner{id: 2}, "in")
		require.NoError(t, err)

		assert.Equal(t, "triage", first.Name)
		assert.Equal(t, "out", first.NextNode)
		assert.Equal(t, uint64(1), first.Params[ParamPerson])
		assert.Equal(t, uint64(2), second.Params[ParamPerson])
		assert.Equal(t, "5m", first.Params["duration"])
		assert.NotSame(t, first.Channels.ToActivity, second.Channels.ToActivity)
		assert.NotSame(t, first.Channels.ToPerson, second.Channels.ToPerson)

		first.Params["duration"] = "1h"
		assert.Equal(t, "5m", second.Params["duration"])

		require.Len(t, seen, 2)
		assert.Same(t, env, seen[0].Env)
		assert.Equal(t, "triage", seen[0].Name)
		assert.Equal(t, uint64(1), seen[0].Owner.ID())
		assert.NotNil(t, seen[0].Collector)
		assert.NotNil(t, seen[0].Logger)
	})

	t.Run("Sink Ends The Traversal", func(t *testing.T) {
		d := &Default{Graph: graph(t, activity.Noop)}
		inst, err := d.Next(sim.New(), owner{id: 1}, "out")
		require.NoError(t, err)
		assert.Nil(t, inst)

		inst, err = d.Next(sim.New(), owner{id: 1}, routing.None)
		require.NoError(t, err)
		assert.Nil(t, inst)
	})

	t.Run("Factory Failure Is Wrapped", func(t *testing.T) {
		boom := errors.New("bad params")
		d := &Default{Graph: graph(t, func(activity.Config) (activity.Behavior, error) { return nil, boom })}
		_, err := d.Next(sim.New(), owner{id: 1}, "in")
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), `activity "triage"`)
	})

	t.Run("Unknown Node", func(t *testing.T) {
		d := &Default{Graph: graph(t, activity.Noop)}
		_, err := d.Next(sim.New(), owner{id: 1}, "nowhere")
		assert.ErrorIs(t, err, domain.ErrUnknownDecision)
	})
}

func TestFunc(t *testing.T) {
	called := false
	var d Decider = Func(func(*sim.Environment, activity.Owner, string) (*activity.Instance, error) {
		called = true
		return nil, nil
	})
	inst, err := d.Next(sim.New(), owner{}, "any")
	require.NoError(t, err)
	assert.Nil(t, inst)
	assert.True(t, called)
}
