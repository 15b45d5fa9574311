package lease

import "time"

// Lease is the coordinator's authorization, held by exactly one worker,
// to finish or append logs to one running job. At most one Lease exists
// per job, and it exists iff the job's status is running.
//
// Possession of Token is what proves ownership; JobID and NodeID are
// carried for bookkeeping and are never compared on their own.
type Lease struct {
	JobID     int64
	NodeID    string
	Token     string
	ExpiresAt time.Time
}

// Expired reports whether the lease's visibility timeout has passed as
// of now.
func (l *Lease) Expired(now time.Time) bool {
	return !l.ExpiresAt.After(now)
}
