package healthdes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/aretw0/healthdes/internal/logging"
	"github.com/aretw0/healthdes/pkg/collector"
	"github.com/aretw0/healthdes/pkg/decision"
	"github.com/aretw0/healthdes/pkg/domain"
	"github.com/aretw0/healthdes/pkg/person"
	"github.com/aretw0/healthdes/pkg/routing"
	"github.com/aretw0/healthdes/pkg/sim"
)

// ErrUnboundedRun is returned by Run when a periodic report is registered but no end time
// is given: the reporting process would keep the run alive forever.
var ErrUnboundedRun = errors.New("periodic reporting needs a positive run length")

// Datasets and counters recorded by every simulation.
const (
	DatasetArrivals  = "arrivals"
	CounterInSystem  = "people_in_system"
	CounterCompleted = "people_completed"
)

// Simulation is the high-level entry point of the library.
// It wires a routing graph, a simulated environment and the people travelling through it.
type Simulation struct {
	name  string
	runID string

	graph     *routing.Graph
	env       *sim.Environment
	memory    *collector.Memory
	collector collector.Collector
	user      collector.Collector
	decider   decision.Decider
	ids       person.IDs
	hooks     domain.LifecycleHooks
	tracer    trace.Tracer
	logger    *slog.Logger

	people    []*person.Person
	periodic  bool
	generated int
}

// Option defines a functional option for configuring a Simulation.
type Option func(*Simulation)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulation) {
		s.logger = logger
	}
}

// WithCollector adds a collector receiving every dataset row and counter change, next to the
// in-memory one every simulation keeps.
func WithCollector(c collector.Collector) Option {
	return func(s *Simulation) {
		s.user = c
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Simulation) {
		s.hooks = hooks
	}
}

// WithIDs sets the allocator person ids are drawn from (default: a sequence starting at 1).
func WithIDs(ids person.IDs) Option {
	return func(s *Simulation) {
		s.ids = ids
	}
}

// WithDecider replaces the default graph-following decision logic.
func WithDecider(d decision.Decider) Option {
	return func(s *Simulation) {
		s.decider = d
	}
}

// WithRunID labels the run (default: a random UUID). An empty id keeps the default.
func WithRunID(id string) Option {
	return func(s *Simulation) {
		if id != "" {
			s.runID = id
		}
	}
}

// WithName names the simulation. It is stamped on every dataset row.
func WithName(name string) Option {
	return func(s *Simulation) {
		if name != "" {
			s.name = name
		}
	}
}

// WithTracer sets the OpenTelemetry tracer used for activity handler spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Simulation) {
		s.tracer = tracer
	}
}

// WithEnvironment runs the simulation on env instead of a fresh environment.
func WithEnvironment(env *sim.Environment) Option {
	return func(s *Simulation) {
		s.env = env
	}
}

// New creates a simulation of people travelling through graph.
func New(graph *routing.Graph, opts ...Option) (*Simulation, error) {
	if graph == nil {
		return nil, errors.New("routing graph is required")
	}
	s := newSimulation(opts)
	s.bind(graph)
	return s, nil
}

func newSimulation(opts []Option) *Simulation {
	s := &Simulation{name: "healthdes"}
	for _, opt := range opts {
		opt(s)
	}
	if s.runID == "" {
		s.runID = uuid.NewString()
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.logger = s.logger.With("simulation", s.name, "run", s.runID)
	if s.env == nil {
		s.env = sim.New(sim.WithLogger(s.logger))
	}
	if s.ids == nil {
		s.ids = person.NewSequence(1)
	}
	s.memory = collector.NewMemory(s.env, s.name, s.runID)
	s.collector = collector.Tee(s.memory, s.user)
	s.hooks = s.hooks.Merge(domain.LifecycleHooks{
		OnPersonTransition: s.onPersonTransition,
	})
	return s
}

func (s *Simulation) bind(graph *routing.Graph) {
	s.graph = graph
	if s.decider == nil {
		s.decider = &decision.Default{Graph: graph, Collector: s.collector, Logger: s.logger}
	}
}

func (s *Simulation) onPersonTransition(_ context.Context, e *domain.PersonTransitionEvent) {
	if e.To == domain.PersonEnd {
		s.collector.Decrement(CounterInSystem, 1)
		s.collector.Increment(CounterCompleted, 1)
	}
}

// Name returns the simulation name.
func (s *Simulation) Name() string { return s.name }

// RunID returns the run label.
func (s *Simulation) RunID() string { return s.runID }

// Env returns the simulated environment.
func (s *Simulation) Env() *sim.Environment { return s.env }

// Graph returns the routing graph.
func (s *Simulation) Graph() *routing.Graph { return s.graph }

// Memory returns the in-memory collector holding this run's datasets and counters.
func (s *Simulation) Memory() *collector.Memory { return s.memory }

// Collector returns the collector activities report to.
func (s *Simulation) Collector() collector.Collector { return s.collector }

// People returns every person added so far.
func (s *Simulation) People() []*person.Person {
	return append([]*person.Person(nil), s.people...)
}

// AddPerson creates a person of the given kind and starts its traversal at the current
// simulated time.
func (s *Simulation) AddPerson(kind, start string, attrs map[string]any) *person.Person {
	opts := []person.Option{
		person.WithIDs(s.ids),
		person.WithLogger(s.logger),
		person.WithHooks(s.hooks),
		person.WithAttributes(attrs),
	}
	if s.tracer != nil {
		opts = append(opts, person.WithTracer(s.tracer))
	}
	p := person.New(s.env, s.decider, kind, start, opts...)
	s.people = append(s.people, p)

	s.collector.Increment(CounterInSystem, 1)
	if err := s.collector.Log(DatasetArrivals, map[string]any{
		"person": p.ID(),
		"kind":   kind,
		"start":  start,
	}); err != nil {
		s.logger.Warn("arrival not recorded", "person", p.ID(), "error", err)
	}
	p.Spawn()
	return p
}

// Arrivals adds count people of the given kind, one every interval of simulated time,
// starting now.
func (s *Simulation) Arrivals(kind, start string, count int, interval time.Duration, attrs map[string]any) error {
	if count <= 0 {
		return fmt.Errorf("arrivals of %q: count must be greater than zero", kind)
	}
	if interval < 0 {
		return fmt.Errorf("arrivals of %q: interval must not be negative", kind)
	}
	s.generated++
	s.env.Spawn(fmt.Sprintf("arrivals/%s/%d", kind, s.generated), func(p *sim.Process) error {
		for i := 0; i < count; i++ {
			if i > 0 {
				if err := p.Wait(interval); err != nil {
					return err
				}
			}
			s.AddPerson(kind, start, attrs)
		}
		return nil
	})
	return nil
}

// Monitor samples callback into dataset every interval of simulated time.
// A simulation with a monitor must be run with a positive end time.
func (s *Simulation) Monitor(dataset string, every time.Duration, callback func() map[string]any) error {
	if err := s.memory.Periodic(dataset, callback, every); err != nil {
		return err
	}
	s.periodic = true
	return nil
}

// Run executes the simulation until no event is left or until is reached (when positive).
func (s *Simulation) Run(ctx context.Context, until time.Duration) (*Report, error) {
	if s.periodic && until <= 0 {
		return nil, ErrUnboundedRun
	}

	started := time.Now()
	err := s.env.Run(ctx, until)
	report := s.report()
	if err != nil {
		s.logger.Error("simulation failed", "time", s.env.Now(), "error", err)
		return report, err
	}

	if report.Stalled > 0 {
		s.logger.Warn("people waiting forever", "count", report.Stalled, "time", report.Now)
	}
	s.logger.Info("simulation finished",
		"time", report.Now,
		"people", report.People,
		"completed", report.Completed,
		"elapsed", time.Since(started),
	)
	return report, nil
}
