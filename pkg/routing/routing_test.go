package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/healthdes/pkg/activity"
	"github.com/aretw0/healthdes/pkg/domain"
	"github.com/aretw0/healthdes/pkg/schema"
)

// clinic builds S --check-in--> M --treatment--> E.
func clinic(t *testing.T) *Graph {
	t.Helper()
	g := New(nil)
	require.NoError(t, g.RegisterActivity("check-in", activity.Noop, map[string]any{"desk": "front"}))
	require.NoError(t, g.RegisterActivity("treatment", activity.Noop, nil))
	for _, id := range []string{"S", "M", "E"} {
		_, err := g.AddDecision(id)
		require.NoError(t, err)
	}
	_, err := g.AddActivity("check-in", "S", "M")
	require.NoError(t, err)
	_, err = g.AddActivity("treatment", "M", "E")
	require.NoError(t, err)
	return g
}

func TestGraph_GetActivity(t *testing.T) {
	g := clinic(t)

	t.Run("Follows The Outgoing Edge", func(t *testing.T) {
		d, err := g.GetActivity("S")
		require.NoError(t, err)
		assert.False(t, d.Absent())
		assert.Equal(t, "check-in", d.Name)
		assert.Equal(t, "M", d.NextNode)
		assert.NotNil(t, d.Factory)
		assert.Equal(t, map[string]any{"desk": "front"}, d.Params)
	})

	t.Run("Params Are A Private Copy", func(t *testing.T) {
		d, err := g.GetActivity("S")
		require.NoError(t, err)
		d.Params["desk"] = "back"

		again, err := g.GetActivity("S")
		require.NoError(t, err)
		assert.Equal(t, "front", again.Params["desk"])
	})

	t.Run("None Is Absent", func(t *testing.T) {
		d, err := g.GetActivity(None)
		require.NoError(t, err)
		assert.True(t, d.Absent())
	})

	t.Run("Sink Is Absent", func(t *testing.T) {
		d, err := g.GetActivity("E")
		require.NoError(t, err)
		assert.True(t, d.Absent())
		assert.Nil(t, d.Factory)
		assert.Nil(t, d.Params)
	})

	t.Run("Unknown Node Fails", func(t *testing.T) {
		_, err := g.GetActivity("X")
		assert.ErrorIs(t, err, domain.ErrUnknownDecision)
	})

	t.Run("Unregistered Activity Fails", func(t *testing.T) {
		g := New(nil)
		_, _ = g.AddDecision("a")
		_, _ = g.AddDecision("b")
		_, err := g.AddActivity("ghost", "a", "b")
		require.NoError(t, err)

		_, err = g.GetActivity("a")
		assert.ErrorIs(t, err, domain.ErrUnknownActivity)
	})

	t.Run("Last Added Edge Wins", func(t *testing.T) {
		g := clinic(t)
		_, err := g.AddActivity("treatment", "S", "E")
		require.NoError(t, err)

		d, err := g.GetActivity("S")
		require.NoError(t, err)
		assert.Equal(t, "treatment", d.Name)
		assert.Equal(t, "E", d.NextNode)
		assert.Len(t, g.Outgoing("S"), 2)
	})
}

func TestGraph_Construction(t *testing.T) {
	t.Run("Duplicate Decision", func(t *testing.T) {
		g := New(nil)
		id, err := g.AddDecision("S")
		require.NoError(t, err)
		assert.Equal(t, "S", id)

		_, err = g.AddDecision("S")
		assert.ErrorIs(t, err, domain.ErrDuplicateDecision)
	})

	t.Run("Empty Decision Is Reserved", func(t *testing.T) {
		_, err := New(nil).AddDecision(None)
		assert.Error(t, err)
	})

	t.Run("Edge Needs Both Endpoints", func(t *testing.T) {
		g := New(nil)
		_, _ = g.AddDecision("S")
		_, err := g.AddActivity("check-in", "S", "M")
		assert.ErrorIs(t, err, domain.ErrUnknownDecision)
		assert.Empty(t, g.Edges())
	})

	t.Run("Duplicate Activity Registration", func(t *testing.T) {
		g := clinic(t)
		err := g.RegisterActivity("check-in", activity.Noop, nil)
		assert.ErrorIs(t, err, domain.ErrDuplicateActivity)
	})

	t.Run("Introspection Is Deterministic", func(t *testing.T) {
		g := clinic(t)
		assert.Equal(t, []string{"E", "M", "S"}, g.Decisions())
		assert.Equal(t, []Edge{
			{Activity: "check-in", From: "S", To: "M"},
			{Activity: "treatment", From: "M", To: "E"},
		}, g.Edges())
	})
}

func TestGraph_Validate(t *testing.T) {
	t.Run("Valid Graph", func(t *testing.T) {
		assert.NoError(t, clinic(t).Validate("S"))
	})

	t.Run("Unknown Start", func(t *testing.T) {
		err := clinic(t).Validate("X")
		assert.ErrorIs(t, err, domain.ErrUnknownDecision)
	})

	t.Run("Collects Every Problem", func(t *testing.T) {
		g := clinic(t)
		_, _ = g.AddDecision("orphan")
		_, err := g.AddActivity("xray", "M", "E")
		require.NoError(t, err)

		err = g.Validate("S")
		errs := schema.ValidationErrors(err)
		require.Len(t, errs, 3, "%v", err)
		assert.Contains(t, errs[0].Error(), `decision "M": 2 outgoing edges`)
		assert.ErrorIs(t, errs[1], domain.ErrUnknownActivity)
		assert.Contains(t, errs[2].Error(), `decision "orphan": unreachable`)
	})
}

func TestGraph_ValidateManyStarts(t *testing.T) {
	g := clinic(t)
	_, _ = g.AddDecision("ambulance")
	_, err := g.AddActivity("treatment", "ambulance", "E")
	require.NoError(t, err)

	assert.Error(t, g.Validate("S"), "ambulance is unreachable from S alone")
	assert.NoError(t, g.Validate("S", "ambulance"))
	assert.Error(t, g.Validate())
}
