package deborgen

import "errors"

// These sentinels are the coordinator's state-conflict and not-found
// taxonomy. Their associated detail strings (see httpapi) are part of the
// wire contract: clients and tests distinguish failure modes by them.
var (
	// ErrJobNotFound indicates no job exists with the given id, or the
	// id does not parse as a job id at all. Both cases are a 404, never
	// a 400 — the external id format is not something a client is
	// expected to validate itself.
	ErrJobNotFound = errors.New("deborgen: job not found")

	// ErrJobNotRunning is returned by finish_job and append_logs when
	// the target job's status is not running.
	ErrJobNotRunning = errors.New("job is not running")

	// ErrNoActiveLease is returned when a job is (or was) running but
	// carries no lease row. This should not occur under invariant 1
	// except as a bug; exposed as a distinct 409 detail regardless.
	ErrNoActiveLease = errors.New("job has no active lease")

	// ErrLeaseExpired is returned when the stored lease's expiry has
	// already passed as of the check.
	ErrLeaseExpired = errors.New("lease has expired")

	// ErrWrongOwner is returned when the caller's (node_id, lease_token)
	// pair does not match the one stored for the job's lease.
	ErrWrongOwner = errors.New("job is owned by a different worker")

	// ErrInvalidLimit is returned by list_jobs when limit is supplied
	// but falls outside [1, 1000].
	ErrInvalidLimit = errors.New("limit must be between 1 and 1000")
)
