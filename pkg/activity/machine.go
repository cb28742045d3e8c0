package activity

import (
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aretw0/healthdes/pkg/domain"
	"github.com/aretw0/healthdes/pkg/sim"
)

const tracerName = "github.com/aretw0/healthdes/pkg/activity"

// Machine drives one activity instance through the activity table.
type Machine struct {
	person uint64
	inst   *Instance
	state  domain.ActivityState

	logger *slog.Logger
	hooks  domain.LifecycleHooks
	tracer trace.Tracer
}

// MachineOption configures a Machine.
type MachineOption func(*Machine)

// WithLogger sets the logger for transition diagnostics.
func WithLogger(logger *slog.Logger) MachineOption {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithHooks registers lifecycle hooks. Only OnActivityTransition is used here.
func WithHooks(hooks domain.LifecycleHooks) MachineOption {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// WithTracer replaces the tracer obtained from the global OpenTelemetry provider.
func WithTracer(tracer trace.Tracer) MachineOption {
	return func(m *Machine) {
		if tracer != nil {
			m.tracer = tracer
		}
	}
}

// NewMachine returns a machine in the init state for inst, performed by person.
func NewMachine(person uint64, inst *Instance, opts ...MachineOption) *Machine {
	m := &Machine{
		person: person,
		inst:   inst,
		state:  domain.ActivityInit,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("person", person, "activity", inst.Name)
	return m
}

// State returns the current state.
func (m *Machine) State() domain.ActivityState {
	return m.state
}

// Run serves commands until the machine reaches the ended state. It is the body of the
// activity's process.
func (m *Machine) Run(p *sim.Process) error {
	for m.state != domain.ActivityEnded {
		cmd, err := m.inst.Channels.ToActivity.Get(p)
		if err != nil {
			return err
		}

		tr, err := Lookup(m.state, cmd)
		if err != nil {
			if pe, ok := err.(*domain.ProtocolError); ok {
				pe.Name = m.inst.Name
			}
			return err
		}

		if err := m.dispatch(p, tr.Handler, cmd); err != nil {
			return fmt.Errorf("activity %q: %s: %w", m.inst.Name, cmd, err)
		}

		from := m.state
		m.state = tr.Next
		m.logger.Debug("activity transition", "from", from, "to", m.state, "command", cmd, "ack", tr.Ack, "time", p.Now())
		if m.hooks.OnActivityTransition != nil {
			m.hooks.OnActivityTransition(p.Context(), &domain.ActivityTransitionEvent{
				EventBase: domain.EventBase{Time: p.Now(), Type: domain.EventActivityTransition, PersonID: m.person},
				Activity:  m.inst.Name,
				From:      from,
				To:        m.state,
				Command:   cmd,
				Ack:       tr.Ack,
			})
		}

		m.inst.Channels.ToPerson.Put(tr.Ack)
	}
	return nil
}

func (m *Machine) dispatch(p *sim.Process, h Handler, cmd domain.Command) (err error) {
	_, span := m.tracer.Start(p.Context(), "activity."+h.String(), trace.WithAttributes(
		attribute.String("healthdes.activity", m.inst.Name),
		attribute.Int64("healthdes.person", int64(m.person)),
		attribute.String("healthdes.command", string(cmd)),
		attribute.Int64("healthdes.sim_time_ns", int64(p.Now())),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	b := m.inst.Behavior
	switch h {
	case HandlerInitialise:
		return b.Initialise(p)
	case HandlerSeizeResources:
		return b.SeizeResources(p)
	case HandlerSeizeResourcesAndExecute:
		if err := b.SeizeResources(p); err != nil {
			return err
		}
		return b.Execute(p)
	case HandlerExecute:
		return b.Execute(p)
	case HandlerReleaseResources:
		return b.ReleaseResources(p)
	case HandlerReleaseResourcesAndEnd:
		if err := b.ReleaseResources(p); err != nil {
			return err
		}
		return b.End(p)
	case HandlerEnd:
		return b.End(p)
	}
	return &domain.ProtocolError{
		Machine: "activity",
		Name:    m.inst.Name,
		State:   string(m.state),
		Message: string(cmd),
		Reason:  fmt.Sprintf("no implementation for handler %d", h),
	}
}
