package collector

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/healthdes/pkg/sim"
)

func TestMemory_Log(t *testing.T) {
	t.Run("First Row Fixes The Columns", func(t *testing.T) {
		env := sim.New()
		m := NewMemory(env, "ed", "run-1")

		require.NoError(t, m.Log("arrivals", map[string]any{"person": 1, "kind": "patient"}))
		require.NoError(t, m.Log("arrivals", map[string]any{"person": 2}))

		table, err := m.Results("arrivals")
		require.NoError(t, err)
		assert.Equal(t, []string{"simulation_name", "simulation_run", "time", "kind", "person"}, table.Header)
		assert.Equal(t, [][]any{
			{"ed", "run-1", time.Duration(0), "patient", 1},
			{"ed", "run-1", time.Duration(0), Null, 2},
		}, table.Rows)
	})

	t.Run("Extra Columns Are Rejected", func(t *testing.T) {
		m := NewMemory(sim.New(), "ed", "1")
		require.NoError(t, m.Log("arrivals", map[string]any{"person": 1}))

		err := m.Log("arrivals", map[string]any{"person": 2, "ward": "A"})
		assert.ErrorIs(t, err, ErrUnknownColumn)

		table, err := m.Results("arrivals")
		require.NoError(t, err)
		assert.Len(t, table.Rows, 1)
	})

	t.Run("Dataset Needs A Name", func(t *testing.T) {
		assert.Error(t, NewMemory(sim.New(), "ed", "1").Log("", map[string]any{}))
	})

	t.Run("Rows Carry Simulated Time", func(t *testing.T) {
		env := sim.New()
		m := NewMemory(env, "ed", "1")
		env.Spawn("logger", func(p *sim.Process) error {
			if err := p.Wait(90 * time.Second); err != nil {
				return err
			}
			return m.Log("events", map[string]any{"what": "arrival"})
		})
		require.NoError(t, env.Run(context.Background(), 0))

		var buf bytes.Buffer
		require.NoError(t, m.WriteCSV(&buf, "events"))
		assert.Equal(t, "simulation_name,simulation_run,time,what\ned,1,1.5,arrival\n", buf.String())
	})

	t.Run("Unknown Dataset", func(t *testing.T) {
		m := NewMemory(sim.New(), "ed", "1")
		_, err := m.Results("missing")
		assert.ErrorIs(t, err, ErrUnknownDataset)
		assert.ErrorIs(t, m.WriteCSV(&bytes.Buffer{}, "missing"), ErrUnknownDataset)
	})
}

func TestMemory_Periodic(t *testing.T) {
	t.Run("Samples Every Interval", func(t *testing.T) {
		env := sim.New()
		m := NewMemory(env, "ed", "1")
		queue := 0
		require.NoError(t, m.Periodic("queue", func() map[string]any {
			queue++
			return map[string]any{"length": queue}
		}, 10*time.Minute))

		require.NoError(t, env.Run(context.Background(), 25*time.Minute))

		table, err := m.Results("queue")
		require.NoError(t, err)
		require.Len(t, table.Rows, 3)
		assert.Equal(t, []any{"ed", "1", 20 * time.Minute, 4}, table.Rows[2])
		assert.Equal(t, []string{"queue"}, m.Reports())
	})

	t.Run("Dataset Must Be New", func(t *testing.T) {
		m := NewMemory(sim.New(), "ed", "1")
		require.NoError(t, m.Log("queue", map[string]any{"length": 0}))
		err := m.Periodic("queue", func() map[string]any { return nil }, time.Minute)
		assert.ErrorIs(t, err, ErrDatasetExists)
	})

	t.Run("Interval Must Be Positive", func(t *testing.T) {
		m := NewMemory(sim.New(), "ed", "1")
		assert.Error(t, m.Periodic("queue", func() map[string]any { return nil }, 0))
		assert.Error(t, m.Periodic("queue", nil, time.Minute))
	})
}

func TestMemory_Counters(t *testing.T) {
	m := NewMemory(sim.New(), "ed", "1")
	m.Increment("beds_in_use", 2)
	m.Decrement("beds_in_use", 1)
	m.Decrement("nurses_free", 1)

	v, ok := m.Counter("beds_in_use")
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)

	_, ok = m.Counter("never")
	assert.False(t, ok)
	assert.Equal(t, map[string]float64{"beds_in_use": 1, "nurses_free": -1}, m.Counters())
}

func TestPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewPrometheus(reg, "healthdes")
	require.NoError(t, err)

	p.Increment("triage_active", 3)
	p.Decrement("triage_active", 1)
	require.NoError(t, p.Log("activity_log", map[string]any{"phase": "started"}))
	require.NoError(t, p.Log("activity_log", map[string]any{"phase": "completed"}))

	assert.Equal(t, 2.0, testutil.ToFloat64(p.counters.WithLabelValues("triage_active")))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.rows.WithLabelValues("activity_log")))

	_, err = NewPrometheus(reg, "healthdes")
	assert.Error(t, err, "registering the same metrics twice fails")
}

type failingCollector struct{ Nop }

func (failingCollector) Log(string, map[string]any) error { return errors.New("disk full") }

func TestTee(t *testing.T) {
	a := NewMemory(sim.New(), "ed", "1")
	b := NewMemory(sim.New(), "ed", "1")
	c := Tee(a, nil, failingCollector{}, b)

	err := c.Log("events", map[string]any{"what": "arrival"})
	assert.EqualError(t, err, "disk full")
	c.Increment("arrivals", 1)
	c.Decrement("arrivals", 0.5)

	for _, m := range []*Memory{a, b} {
		table, err := m.Results("events")
		require.NoError(t, err)
		assert.Len(t, table.Rows, 1)
		v, _ := m.Counter("arrivals")
		assert.Equal(t, 0.5, v)
	}
}
