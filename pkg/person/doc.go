/*
Package person implements the state machine of an entity traversing the routing graph.

A Person holds up to two activity instances: slot A, the activity under way, and slot B, the
next one being staged. It drives both through request/response exchanges on their channel
pairs, following a fixed table of (state, event) rows. Each row names an action, at most one
command for one slot, and the next state; the ack a slot sends back, suffixed with the slot
name, becomes the next event.

The table overlaps the hand-over between activities: once A has completed, B is initialised
and seizes its resources before A releases its own and ends. The traversal of N activities
visits

	init, initialised_a, resources_seized_a, started_a, branch_if_end,
	{initialised_b, resources_seized_b, resources_released_a, stop_a_transfer_to_b,
	 resources_seized_a, started_a, branch_if_end} x (N-1),
	end

An empty slot behaves as an activity without domain logic: nothing is spawned for it and any
command sent to it is acknowledged at once. A person whose start node has no outgoing edge
therefore walks init to end without creating slot B.
*/
package person
