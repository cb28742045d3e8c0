package person

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"strconv"

	"go.opentelemetry.io/otel/trace"

	"github.com/aretw0/healthdes/pkg/activity"
	"github.com/aretw0/healthdes/pkg/decision"
	"github.com/aretw0/healthdes/pkg/domain"
	"github.com/aretw0/healthdes/pkg/routing"
	"github.com/aretw0/healthdes/pkg/sim"
)

// Person traverses the routing graph from a start node.
type Person struct {
	id      uint64
	kind    string
	start   string
	env     *sim.Environment
	decider decision.Decider
	attrs   map[string]any

	a, b    *activity.Instance
	state   domain.PersonState
	states  []domain.PersonState
	visited []string

	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	machines []activity.MachineOption
}

// Option configures a Person.
type Option func(*Person)

// WithIDs draws the person's id from ids. Without it the person is numbered 1.
func WithIDs(ids IDs) Option {
	return func(p *Person) {
		if ids != nil {
			p.id = ids.Next()
		}
	}
}

// WithLogger sets the logger used by the person and its activities.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Person) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithHooks registers lifecycle hooks for the person and its activities.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Person) {
		p.hooks = hooks
	}
}

// WithTracer sets the tracer handed to the person's activity machines.
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Person) {
		p.machines = append(p.machines, activity.WithTracer(tracer))
	}
}

// WithAttributes seeds the person's attributes.
func WithAttributes(attrs map[string]any) Option {
	return func(p *Person) {
		maps.Copy(p.attrs, attrs)
	}
}

// New creates a person of the given kind that will start at node start once run.
func New(env *sim.Environment, decider decision.Decider, kind, start string, opts ...Option) *Person {
	p := &Person{
		id:      1,
		kind:    kind,
		start:   start,
		env:     env,
		decider: decider,
		attrs:   make(map[string]any),
		state:   domain.PersonInit,
		states:  []domain.PersonState{domain.PersonInit},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.machines = append(p.machines, activity.WithLogger(p.logger), activity.WithHooks(p.hooks))
	p.logger = p.logger.With("person", p.id, "kind", kind)
	return p
}

// ID returns the person id.
func (p *Person) ID() uint64 { return p.id }

// Kind returns the person type, e.g. "patient".
func (p *Person) Kind() string { return p.kind }

// StartNode returns the node the traversal starts from.
func (p *Person) StartNode() string { return p.start }

// State returns the current state.
func (p *Person) State() domain.PersonState { return p.state }

// Done reports whether the traversal has ended.
func (p *Person) Done() bool { return p.state.Terminal() }

// States returns every state visited so far, starting with init.
func (p *Person) States() []domain.PersonState {
	return append([]domain.PersonState(nil), p.states...)
}

// Visited returns the names of the activities started so far, in order.
func (p *Person) Visited() []string {
	return append([]string(nil), p.visited...)
}

// Set records an attribute on the person.
func (p *Person) Set(key string, value any) {
	p.attrs[key] = value
}

// Query returns an attribute previously set.
func (p *Person) Query(key string) (any, error) {
	v, ok := p.attrs[key]
	if !ok {
		return nil, fmt.Errorf("person %d: %q: %w", p.id, key, domain.ErrUnknownAttribute)
	}
	return v, nil
}

// Spawn schedules the person's traversal as a process of its environment.
func (p *Person) Spawn() *sim.Process {
	return p.env.Spawn(fmt.Sprintf("%s-%d", p.kind, p.id), p.Run)
}

// Run drives the traversal to the end state. It is the body of the person's process.
func (p *Person) Run(proc *sim.Process) error {
	first, err := p.decider.Next(p.env, p, p.start)
	if err != nil {
		return fmt.Errorf("person %d: start %q: %w", p.id, p.start, err)
	}
	p.a = first

	event := domain.EventInitialiseA
	for !p.state.Terminal() {
		r, err := lookup(p.id, p.state, event)
		if err != nil {
			return err
		}

		produced, err := p.perform(proc, r.action)
		if err != nil {
			return err
		}

		next := produced
		switch {
		case r.toA != "":
			ack, err := p.send(proc, domain.SlotA, r.toA)
			if err != nil {
				return err
			}
			next = domain.SlotA.Event(ack)
		case r.toB != "":
			ack, err := p.send(proc, domain.SlotB, r.toB)
			if err != nil {
				return err
			}
			next = domain.SlotB.Event(ack)
		}
		if next == "" && r.next != domain.PersonEnd {
			return &domain.ProtocolError{
				Machine: "person",
				Name:    strconv.FormatUint(p.id, 10),
				State:   string(p.state),
				Message: string(event),
				Reason:  "row produced no event",
			}
		}

		p.transition(proc, r.next, event)
		event = next
	}
	return nil
}

func (p *Person) perform(proc *sim.Process, a action) (domain.PersonEvent, error) {
	switch a {
	case actionNone:
		return "", nil
	case actionRunA:
		p.spawn(p.a)
		return "", nil
	case actionRunB:
		p.spawn(p.b)
		return "", nil
	case actionGetNextNode:
		node := routing.None
		if p.a != nil {
			node = p.a.NextNode
		}
		b, err := p.decider.Next(p.env, p, node)
		if err != nil {
			return "", fmt.Errorf("person %d: next activity after %q: %w", p.id, node, err)
		}
		p.b = b
		if b == nil {
			return domain.EventBranchToEnd, nil
		}
		return domain.EventInitialiseB, nil
	case actionBToA:
		p.a, p.b = p.b, nil
		return domain.EventResourcesSeizedA, nil
	}
	return "", &domain.ProtocolError{
		Machine: "person",
		Name:    strconv.FormatUint(p.id, 10),
		State:   string(p.state),
		Message: a.String(),
		Reason:  "no implementation for action",
	}
}

func (p *Person) spawn(inst *activity.Instance) {
	if inst == nil {
		return
	}
	p.visited = append(p.visited, inst.Name)
	m := activity.NewMachine(p.id, inst, p.machines...)
	p.env.Spawn(fmt.Sprintf("%s-%d/%s", p.kind, p.id, inst.Name), m.Run)
}

func (p *Person) slot(s domain.Slot) *activity.Instance {
	if s == domain.SlotA {
		return p.a
	}
	return p.b
}

// send delivers cmd to the instance in slot s and waits for its ack. An empty slot answers
// immediately with the ack the command always receives.
func (p *Person) send(proc *sim.Process, s domain.Slot, cmd domain.Command) (domain.Ack, error) {
	inst := p.slot(s)

	var ack domain.Ack
	name := ""
	if inst == nil {
		local, ok := cmd.Ack()
		if !ok {
			return "", fmt.Errorf("person %d: slot %s: command %q: %w", p.id, s, cmd, domain.ErrEmptySlot)
		}
		ack = local
	} else {
		name = inst.Name
		inst.Channels.ToActivity.Put(cmd)
		got, err := inst.Channels.ToPerson.Get(proc)
		if err != nil {
			return "", err
		}
		ack = got
	}

	if p.hooks.OnCommand != nil {
		p.hooks.OnCommand(proc.Context(), &domain.CommandEvent{
			EventBase: domain.EventBase{Time: proc.Now(), Type: domain.EventCommand, PersonID: p.id},
			Slot:      s,
			Activity:  name,
			Command:   cmd,
			Ack:       ack,
		})
	}
	return ack, nil
}

func (p *Person) transition(proc *sim.Process, to domain.PersonState, event domain.PersonEvent) {
	from := p.state
	p.state = to
	p.states = append(p.states, to)
	p.logger.Debug("person transition", "from", from, "to", to, "event", event, "time", proc.Now())
	if p.hooks.OnPersonTransition != nil {
		p.hooks.OnPersonTransition(proc.Context(), &domain.PersonTransitionEvent{
			EventBase: domain.EventBase{Time: proc.Now(), Type: domain.EventPersonTransition, PersonID: p.id},
			From:      from,
			To:        to,
			Event:     event,
		})
	}
}
