package domain

// ActivityState is a state of the Activity state machine.
type ActivityState string

const (
	ActivityInit            ActivityState = "init"
	ActivityInitialised     ActivityState = "initialised"
	ActivityResourcesSeized ActivityState = "resources_seized"
	ActivityCompleted       ActivityState = "completed"
	ActivityStopped         ActivityState = "stopped"
	ActivityEnded           ActivityState = "ended" // terminal
)

// Command is a message sent by a Person to one of its Activities.
type Command string

const (
	CommandInitialise       Command = "initialise"
	CommandSeizeResources   Command = "seize_resources"
	CommandStart            Command = "start"
	CommandReleaseResources Command = "release_resources"
	CommandEnd              Command = "end"
)

// Ack is the acknowledgement an Activity sends back once a command has been handled.
type Ack string

const (
	AckInitialised       Ack = "initialised"
	AckResourcesSeized   Ack = "resources_seized"
	AckCompleted         Ack = "completed"
	AckResourcesReleased Ack = "resources_released"
	AckEnded             Ack = "ended"
)

// Terminal reports whether no further command is accepted in s.
func (s ActivityState) Terminal() bool {
	return s == ActivityEnded
}

var commandAcks = map[Command]Ack{
	CommandInitialise:       AckInitialised,
	CommandSeizeResources:   AckResourcesSeized,
	CommandStart:            AckCompleted,
	CommandReleaseResources: AckResourcesReleased,
	CommandEnd:              AckEnded,
}

// Ack returns the acknowledgement that answers c, and false for an unknown command.
func (c Command) Ack() (Ack, bool) {
	ack, ok := commandAcks[c]
	return ack, ok
}
