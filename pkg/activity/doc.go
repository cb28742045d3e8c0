// Package activity implements the per-activity state machine.
//
// Each activity a person performs runs as its own sim.Process driven by a Machine. The
// machine blocks on its inbound channel for a command, looks the (state, command) pair up in
// a fixed transition table, runs the matching Behavior handler, moves to the next state and
// answers with an ack on the outbound channel. It stops once it reaches the ended state.
//
//	init --initialise--> initialised --seize_resources--> resources_seized --start--> completed
//	initialised --start--> completed                      (seize_resources then execute)
//	completed --release_resources--> stopped --end--> ended
//	completed --end--> ended                              (release_resources then end)
//
// Behaviors carry the domain logic (waiting for a nurse, holding a bed for some time). A
// handler may suspend the process; the person driving the activity only sees the eventual ack.
package activity
