// Package lease implements the capability token by which exactly one
// worker is authorized to finish or write logs for a running job.
//
// A lease is created atomically with a job's queued->running transition
// and deleted atomically with its running->terminal transition. Its
// token is opaque, random, and compared by exact byte equality; it is
// never derived from or parsed into anything meaningful by the caller.
package lease
