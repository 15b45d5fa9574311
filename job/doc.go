// Package job defines the durable representation of a deborgen job: its
// identity, command, and position in the queued -> running -> terminal
// state machine.
//
// Job values are snapshots returned by the store and lifecycle layers.
// They are not intended to be constructed manually by callers; state
// transitions are performed through the store.Store interface, never by
// mutating a Job value directly.
package job
