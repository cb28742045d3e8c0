/*
Package domain contains the shared vocabulary of the HealthDES simulation core.

It defines the states, commands and acknowledgements exchanged between a Person and the
Activities it orchestrates, the lifecycle events emitted while they run, and the errors
that describe protocol and registration failures. This package is kept pure and free of
scheduling, I/O or persistence concerns.

# Key Entities

  - ActivityState, Command, Ack: the Activity state machine alphabet.
  - PersonState, PersonEvent, Slot: the Person state machine alphabet.
  - LifecycleHooks: callbacks used for logging, metrics and tests.
  - ProtocolError: a (state, message) pair with no transition table entry.
*/
package domain
