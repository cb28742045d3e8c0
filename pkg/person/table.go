package person

import (
	"strconv"

	"github.com/aretw0/healthdes/pkg/domain"
)

type action uint8

const (
	actionNone action = iota
	actionRunA
	actionRunB
	actionGetNextNode
	actionBToA
)

func (a action) String() string {
	switch a {
	case actionNone:
		return "none"
	case actionRunA:
		return "run_a"
	case actionRunB:
		return "run_b"
	case actionGetNextNode:
		return "get_next_node"
	case actionBToA:
		return "b_to_a"
	}
	return "unknown"
}

type row struct {
	action action
	toA    domain.Command
	toB    domain.Command
	next   domain.PersonState
}

var table = map[domain.PersonState]map[domain.PersonEvent]row{
	domain.PersonInit: {
		domain.EventInitialiseA: {action: actionRunA, toA: domain.CommandInitialise, next: domain.PersonInitialisedA},
	},
	domain.PersonInitialisedA: {
		domain.EventInitialisedA: {toA: domain.CommandSeizeResources, next: domain.PersonResourcesSeizedA},
	},
	domain.PersonResourcesSeizedA: {
		domain.EventResourcesSeizedA: {toA: domain.CommandStart, next: domain.PersonStartedA},
	},
	domain.PersonStartedA: {
		domain.EventCompletedA: {action: actionGetNextNode, next: domain.PersonBranchIfEnd},
	},
	domain.PersonBranchIfEnd: {
		domain.EventInitialiseB: {action: actionRunB, toB: domain.CommandInitialise, next: domain.PersonInitialisedB},
		domain.EventBranchToEnd: {toA: domain.CommandEnd, next: domain.PersonEnd},
	},
	domain.PersonInitialisedB: {
		domain.EventInitialisedB: {toB: domain.CommandSeizeResources, next: domain.PersonResourcesSeizedB},
	},
	domain.PersonResourcesSeizedB: {
		domain.EventResourcesSeizedB: {toA: domain.CommandReleaseResources, next: domain.PersonResourcesReleasedA},
	},
	domain.PersonResourcesReleasedA: {
		domain.EventResourcesReleasedA: {toA: domain.CommandEnd, next: domain.PersonStopATransferToB},
	},
	domain.PersonStopATransferToB: {
		domain.EventEndedA: {action: actionBToA, next: domain.PersonResourcesSeizedA},
	},
}

func lookup(id uint64, state domain.PersonState, event domain.PersonEvent) (row, error) {
	if r, ok := table[state][event]; ok {
		return r, nil
	}
	reason := "event not accepted in this state"
	if _, known := table[state]; !known {
		reason = "state has no transitions"
	}
	return row{}, &domain.ProtocolError{
		Machine: "person",
		Name:    strconv.FormatUint(id, 10),
		State:   string(state),
		Message: string(event),
		Reason:  reason,
	}
}
