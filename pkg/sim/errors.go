package sim

import "errors"

// ErrStopped is returned from a suspension point when the environment shuts down.
var ErrStopped = errors.New("simulation stopped")

// ErrAlreadyRun is returned when Run is called on an environment that already ran.
var ErrAlreadyRun = errors.New("environment already ran")

// ErrNegativeDelay is returned by Wait for a negative duration.
var ErrNegativeDelay = errors.New("negative delay")

// ErrNotHeld is returned when releasing a resource with no unit in use.
var ErrNotHeld = errors.New("resource not held")
