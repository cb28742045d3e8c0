package domain

import (
	"context"
	"time"
)

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventPersonTransition   EventType = "person_transition"
	EventActivityTransition EventType = "activity_transition"
	EventCommand            EventType = "command"
)

// EventBase contains common fields for all lifecycle events.
type EventBase struct {
	Time     time.Duration `json:"time"` // simulated time
	Type     EventType     `json:"type"`
	PersonID uint64        `json:"person_id"`
}

// PersonTransitionEvent is emitted each time a person changes state.
type PersonTransitionEvent struct {
	EventBase
	From  PersonState `json:"from"`
	To    PersonState `json:"to"`
	Event PersonEvent `json:"event"`
}

// ActivityTransitionEvent is emitted once an activity handler has run and before the ack is sent.
type ActivityTransitionEvent struct {
	EventBase
	Activity string        `json:"activity"`
	From     ActivityState `json:"from"`
	To       ActivityState `json:"to"`
	Command  Command       `json:"command"`
	Ack      Ack           `json:"ack"`
}

// CommandEvent records one request/response exchange between a person and a slot.
type CommandEvent struct {
	EventBase
	Slot     Slot    `json:"slot"`
	Activity string  `json:"activity,omitempty"` // empty for an empty slot
	Command  Command `json:"command"`
	Ack      Ack     `json:"ack"`
}

// LifecycleHooks defines callbacks for simulation observability.
// Hooks run inside the simulation process that produced the event and must not block.
type LifecycleHooks struct {
	OnPersonTransition   func(context.Context, *PersonTransitionEvent)
	OnActivityTransition func(context.Context, *ActivityTransitionEvent)
	OnCommand            func(context.Context, *CommandEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnPersonTransition:   chain(h.OnPersonTransition, other.OnPersonTransition),
		OnActivityTransition: chain(h.OnActivityTransition, other.OnActivityTransition),
		OnCommand:            chain(h.OnCommand, other.OnCommand),
	}
}

func chain[E any](first, second func(context.Context, E)) func(context.Context, E) {
	switch {
	case first == nil:
		return second
	case second == nil:
		return first
	}
	return func(ctx context.Context, e E) {
		first(ctx, e)
		second(ctx, e)
	}
}
