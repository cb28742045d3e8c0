package domain

import (
	"errors"
	"fmt"
)

// ErrProtocol matches every *ProtocolError.
var ErrProtocol = errors.New("protocol violation")

// ErrDuplicateActivity is returned when an activity name is registered twice.
var ErrDuplicateActivity = errors.New("activity already registered")

// ErrUnknownActivity is returned when an activity name has no registration.
var ErrUnknownActivity = errors.New("activity not registered")

// ErrDuplicateDecision is returned when a decision point is added twice.
var ErrDuplicateDecision = errors.New("decision already exists")

// ErrUnknownDecision is returned when a decision point is not part of the routing graph.
var ErrUnknownDecision = errors.New("decision not found")

// ErrUnknownAttribute is returned when querying a person attribute that was never set.
var ErrUnknownAttribute = errors.New("unknown attribute")

// ErrEmptySlot is returned when an operation needs an activity in a slot that holds none.
var ErrEmptySlot = errors.New("activity slot is empty")

// ProtocolError reports a message that has no entry in a state machine's transition table.
// It is fatal: the table is fixed, so the error points at a programming defect.
type ProtocolError struct {
	Machine string // "activity" or "person"
	Name    string // activity name or person id, when known
	State   string
	Message string
	Reason  string
}

func (e *ProtocolError) Error() string {
	subject := e.Machine
	if e.Name != "" {
		subject = fmt.Sprintf("%s %q", e.Machine, e.Name)
	}
	return fmt.Sprintf("%s: %s: state %q, message %q", subject, e.Reason, e.State, e.Message)
}

// Is makes errors.Is(err, ErrProtocol) hold for every ProtocolError.
func (e *ProtocolError) Is(target error) bool {
	return target == ErrProtocol
}
