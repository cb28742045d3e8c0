package behaviors

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/healthdes/pkg/collector"
	"github.com/aretw0/healthdes/pkg/decision"
	"github.com/aretw0/healthdes/pkg/person"
	"github.com/aretw0/healthdes/pkg/routing"
	"github.com/aretw0/healthdes/pkg/schema"
	"github.com/aretw0/healthdes/pkg/sim"
)

type fixture struct {
	env   *sim.Environment
	res   *Resources
	mem   *collector.Memory
	graph *routing.Graph
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	env := sim.New()
	f := &fixture{
		env:   env,
		res:   NewResources(env),
		mem:   collector.NewMemory(env, "test", "1"),
		graph: routing.New(nil),
	}
	_, err := f.graph.AddDecision("in")
	require.NoError(t, err)
	_, err = f.graph.AddDecision("out")
	require.NoError(t, err)
	return f
}

func (f *fixture) activity(t *testing.T, kind, name string, params map[string]any) {
	t.Helper()
	k := Catalogue(f.res)[kind]
	require.NoError(t, f.graph.RegisterActivity(name, k.Factory, params, k.Schema))
	_, err := f.graph.AddActivity(name, "in", "out")
	require.NoError(t, err)
}

func (f *fixture) people(n int) []*person.Person {
	ids := person.NewSequence(1)
	d := &decision.Default{Graph: f.graph, Collector: f.mem}
	out := make([]*person.Person, n)
	for i := range out {
		out[i] = person.New(f.env, d, "patient", "in", person.WithIDs(ids))
		out[i].Spawn()
	}
	return out
}

func TestDelay(t *testing.T) {
	f := newFixture(t)
	f.activity(t, KindDelay, "triage", map[string]any{"duration": "15m"})
	people := f.people(2)

	require.NoError(t, f.env.Run(context.Background(), 0))
	assert.Equal(t, 15*time.Minute, f.env.Now(), "delays run in parallel")
	for _, p := range people {
		assert.True(t, p.Done())
	}

	done, _ := f.mem.Counter("triage_completed")
	assert.Equal(t, 2.0, done)
	active, _ := f.mem.Counter("triage_active")
	assert.Zero(t, active)

	table, err := f.mem.Results(Dataset)
	require.NoError(t, err)
	assert.Equal(t, []string{"simulation_name", "simulation_run", "time", "activity", "person", "phase"}, table.Header)
	assert.Len(t, table.Rows, 4)
}

func TestResource(t *testing.T) {
	t.Run("Patients Queue For A Single Nurse", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.res.Add("nurse", 1))
		f.activity(t, KindResource, "treatment", map[string]any{"resource": "nurse", "duration": "30m"})
		f.people(2)

		require.NoError(t, f.env.Run(context.Background(), 0))
		assert.Equal(t, time.Hour, f.env.Now())

		nurse, err := f.res.Get("nurse")
		require.NoError(t, err)
		assert.Zero(t, nurse.InUse())

		table, err := f.mem.Results(Dataset)
		require.NoError(t, err)
		var seized []time.Duration
		for _, row := range table.Rows {
			if row[5] == "seized" {
				seized = append(seized, row[2].(time.Duration))
			}
		}
		assert.Equal(t, []time.Duration{0, 30 * time.Minute}, seized)

		waiting, _ := f.mem.Counter("nurse_waiting")
		inUse, _ := f.mem.Counter("nurse_in_use")
		assert.Zero(t, waiting)
		assert.Zero(t, inUse)
	})

	t.Run("Two Nurses Serve Two Patients At Once", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.res.Add("nurse", 2))
		f.activity(t, KindResource, "treatment", map[string]any{"resource": "nurse", "duration": "30m"})
		f.people(2)

		require.NoError(t, f.env.Run(context.Background(), 0))
		assert.Equal(t, 30*time.Minute, f.env.Now())
	})

	t.Run("Missing Resource Fails At First Use", func(t *testing.T) {
		f := newFixture(t)
		f.activity(t, KindResource, "xray", map[string]any{"resource": "scanner", "duration": "5m"})
		f.people(1)

		err := f.env.Run(context.Background(), 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `resource "scanner" not found`)
	})
}

func TestCatalogue_Schemas(t *testing.T) {
	cat := Catalogue(nil)
	assert.Len(t, cat, 3)

	err := schema.Validate(cat[KindResource].Schema, map[string]any{"duration": "5m"})
	assert.Len(t, schema.ValidationErrors(err), 1)

	assert.Error(t, schema.Validate(cat[KindNoop].Schema, map[string]any{"duration": "5m"}))
	assert.NoError(t, schema.Validate(cat[KindDelay].Schema, map[string]any{"duration": 5 * time.Minute}))
}

func TestResources(t *testing.T) {
	res := NewResources(sim.New())
	require.NoError(t, res.Add("nurse", 2))
	require.NoError(t, res.Add("bed", 10))

	assert.Error(t, res.Add("nurse", 1))
	assert.Error(t, res.Add("doctor", 0))
	_, err := res.Get("porter")
	assert.Error(t, err)
	assert.Equal(t, []string{"bed", "nurse"}, res.Names())
}
