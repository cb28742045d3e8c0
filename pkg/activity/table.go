package activity

import "github.com/aretw0/healthdes/pkg/domain"

// Handler names the behavior hook(s) a transition runs.
type Handler uint8

const (
	HandlerInitialise Handler = iota + 1
	HandlerSeizeResources
	HandlerSeizeResourcesAndExecute
	HandlerExecute
	HandlerReleaseResources
	HandlerReleaseResourcesAndEnd
	HandlerEnd
)

func (h Handler) String() string {
	switch h {
	case HandlerInitialise:
		return "initialise"
	case HandlerSeizeResources:
		return "seize_resources"
	case HandlerSeizeResourcesAndExecute:
		return "seize_resources+execute"
	case HandlerExecute:
		return "execute"
	case HandlerReleaseResources:
		return "release_resources"
	case HandlerReleaseResourcesAndEnd:
		return "release_resources+end"
	case HandlerEnd:
		return "end"
	}
	return "unknown"
}

// Transition is one row of the activity table.
type Transition struct {
	Next    domain.ActivityState
	Handler Handler
	Ack     domain.Ack
}

var table = map[domain.ActivityState]map[domain.Command]Transition{
	domain.ActivityInit: {
		domain.CommandInitialise: {domain.ActivityInitialised, HandlerInitialise, domain.AckInitialised},
	},
	domain.ActivityInitialised: {
		domain.CommandSeizeResources: {domain.ActivityResourcesSeized, HandlerSeizeResources, domain.AckResourcesSeized},
		domain.CommandStart:          {domain.ActivityCompleted, HandlerSeizeResourcesAndExecute, domain.AckCompleted},
	},
	domain.ActivityResourcesSeized: {
		domain.CommandStart: {domain.ActivityCompleted, HandlerExecute, domain.AckCompleted},
	},
	domain.ActivityCompleted: {
		domain.CommandReleaseResources: {domain.ActivityStopped, HandlerReleaseResources, domain.AckResourcesReleased},
		domain.CommandEnd:              {domain.ActivityEnded, HandlerReleaseResourcesAndEnd, domain.AckEnded},
	},
	domain.ActivityStopped: {
		domain.CommandEnd: {domain.ActivityEnded, HandlerEnd, domain.AckEnded},
	},
}

// Lookup returns the transition for command received in state.
// Pairs missing from the table yield a *domain.ProtocolError.
func Lookup(state domain.ActivityState, command domain.Command) (Transition, error) {
	if tr, ok := table[state][command]; ok {
		return tr, nil
	}
	reason := "command not accepted in this state"
	if _, known := table[state]; !known {
		reason = "state has no transitions"
	}
	return Transition{}, &domain.ProtocolError{
		Machine: "activity",
		State:   string(state),
		Message: string(command),
		Reason:  reason,
	}
}
