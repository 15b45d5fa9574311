// Package lifecycle is the thin layer above deborgen.Store that the HTTP
// surface calls into directly. It owns the default-value policy the store
// does not: the lease duration handed to ClaimNextJob, and the timeout
// and attempt budget CreateJob substitutes for zero values. Every
// method otherwise forwards to the store, translating an external job id
// ("job_42") to the internal integer key and mapping a parse failure to
// ErrJobNotFound rather than a validation error, per spec.
package lifecycle
