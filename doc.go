// Package deborgen defines the coordinator's storage contract and the
// state-conflict taxonomy it enforces: Store is the interface every
// persistence backend implements, and the Err* sentinels below are the
// exact failure modes the HTTP surface maps to 404/409 responses.
//
// # Overview
//
// A deborgen job moves through a single-writer state machine: queued ->
// running -> {succeeded, failed}. A claim is the atomic transition of a
// queued job into running on behalf of a named node, paired with
// issuance of a lease — a capability token proving the caller is the one
// worker authorized to finish or log against that job while it runs.
//
// # Lease protocol
//
// At most one lease exists per job, and it exists iff the job's status
// is running. finish_job and append_logs both validate the same three
// things before changing any state: the job is running, its lease has not
// expired, and the caller's (node_id, lease_token) pair matches the
// stored one. Any mismatch is a state-conflict (409), never a panic or a
// silent no-op.
//
// # Storage expectations
//
// Store implementations must run each operation inside a single
// transaction and must make claim_next_job atomic with respect to
// concurrent callers: two concurrent claims never return the same job.
// See package store for the bun/SQLite-backed implementation.
package deborgen
