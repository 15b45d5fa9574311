// Package workeragent implements the worker side of spec §4.4: a
// long-lived loop that heartbeats, polls the coordinator for work,
// executes the claimed command with a wall-clock timeout, and reports
// the result. It keeps at most one job in flight and performs no local
// retry of execution.
package workeragent
