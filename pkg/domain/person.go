package domain

// PersonState is a state of the Person state machine.
type PersonState string

const (
	PersonInit               PersonState = "init"
	PersonInitialisedA       PersonState = "initialised_a"
	PersonResourcesSeizedA   PersonState = "resources_seized_a"
	PersonStartedA           PersonState = "started_a"
	PersonBranchIfEnd        PersonState = "branch_if_end"
	PersonInitialisedB       PersonState = "initialised_b"
	PersonResourcesSeizedB   PersonState = "resources_seized_b"
	PersonResourcesReleasedA PersonState = "resources_released_a"
	PersonStopATransferToB   PersonState = "stop_a_transfer_to_b"
	PersonEnd                PersonState = "end" // terminal
)

// PersonEvent is an internal event of the Person state machine. Acks received from an
// activity slot become events once the slot suffix is appended (see Slot.Event).
type PersonEvent string

const (
	EventInitialiseA        PersonEvent = "initialise_a"
	EventInitialisedA       PersonEvent = "initialised_a"
	EventResourcesSeizedA   PersonEvent = "resources_seized_a"
	EventStartedA           PersonEvent = "started_a"
	EventCompletedA         PersonEvent = "completed_a"
	EventBranchIfEnd        PersonEvent = "branch_if_end"
	EventInitialiseB        PersonEvent = "initialise_b"
	EventBranchToEnd        PersonEvent = "branch_to_end"
	EventInitialisedB       PersonEvent = "initialised_b"
	EventResourcesSeizedB   PersonEvent = "resources_seized_b"
	EventResourcesReleasedA PersonEvent = "resources_released_a"
	EventStopATransferToB   PersonEvent = "stop_a_transfer_to_b"
	EventEndedA             PersonEvent = "ended_a"
)

// Slot names one of the two activity instances a Person can hold at once.
type Slot string

const (
	SlotA Slot = "a" // the currently active activity
	SlotB Slot = "b" // the next activity being staged
)

// Event turns an acknowledgement received from this slot into a Person event.
func (s Slot) Event(ack Ack) PersonEvent {
	return PersonEvent(string(ack) + "_" + string(s))
}

// Terminal reports whether the person has finished its traversal.
func (s PersonState) Terminal() bool {
	return s == PersonEnd
}
