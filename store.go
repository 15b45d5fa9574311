package deborgen

import (
	"context"
	"time"

	"github.com/sacchen/deborgen/job"
	"github.com/sacchen/deborgen/lease"
	"github.com/sacchen/deborgen/node"
)

// Store is the coordinator's single source of truth. Each method runs
// inside one transaction against the backing store and maps 1:1 onto a
// lifecycle operation from spec §4.1.
//
// Implementations must serialize writes against each other — either via
// the backing engine's own transaction isolation, or (as package store
// does for SQLite) an explicit writer mutex — so that the whole store
// behaves as a linearizable state machine. Reads may proceed concurrently
// with each other and are observed consistent with the writer.
type Store interface {
	// CreateJob inserts a new job in the queued state with attempts=0.
	// Implementations reject non-positive timeoutSeconds or maxAttempts.
	CreateJob(ctx context.Context, command string, timeoutSeconds, maxAttempts int) (*job.Job, error)

	// ListJobs returns jobs in descending id order (newest first).
	// status, if non-nil, filters to that status. limit, if non-nil,
	// must be in [1,1000] or ErrInvalidLimit is returned; a nil limit
	// means no limit.
	ListJobs(ctx context.Context, status *job.Status, limit *int) ([]*job.Job, error)

	// GetJob returns the job identified by id, or ErrJobNotFound.
	GetJob(ctx context.Context, id int64) (*job.Job, error)

	// ClaimNextJob selects the smallest-id job with status=queued and
	// attempts<max_attempts, transitions it to running, stamps
	// started_at, increments attempts, and mints a lease with the given
	// duration. It returns (nil, nil, nil) if no job is eligible.
	//
	// The whole operation is atomic: no two concurrent calls ever
	// return the same job.
	ClaimNextJob(ctx context.Context, nodeID string, leaseDuration time.Duration) (*job.Job, *lease.Lease, error)

	// FinishJob transitions a running job to a terminal state.
	//
	// It returns ErrJobNotFound, ErrJobNotRunning, ErrNoActiveLease,
	// ErrLeaseExpired, or ErrWrongOwner if the lease checks fail;
	// otherwise it sets exit_code, failure_reason, finished_at, the
	// terminal status derived from exitCode, and deletes the lease.
	FinishJob(ctx context.Context, id int64, nodeID, leaseToken string, exitCode int, failureReason *string) (*job.Job, error)

	// AppendLogs appends one chunk to a job's log, subject to the same
	// lease validation as FinishJob.
	AppendLogs(ctx context.Context, id int64, nodeID, leaseToken, text string) error

	// ReadLogs returns the concatenation of a job's log chunks in
	// insertion order. No lease is required.
	ReadLogs(ctx context.Context, id int64) (string, error)

	// HeartbeatNode upserts a node registry entry: on conflict, name is
	// overwritten if non-empty, labels are overwritten if non-empty
	// (an empty label set preserves the existing ones), and
	// last_seen_at is always refreshed.
	HeartbeatNode(ctx context.Context, nodeID string, name string, labels node.Labels) (*node.Node, error)
}
