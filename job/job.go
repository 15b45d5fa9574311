package job

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// IDPrefix is prepended to every job's numeric primary key to form its
// external identifier, e.g. "job_42".
const IDPrefix = "job_"

// FormatID renders the numeric primary key n as its external form.
func FormatID(n int64) string {
	return IDPrefix + strconv.FormatInt(n, 10)
}

// ParseID recovers the numeric primary key from an external job id.
//
// Any string not starting with IDPrefix, or carrying a non-digit suffix,
// fails to parse. Callers must treat a parse failure as "no such job"
// (404), not as a malformed-request (400): the id namespace is opaque to
// clients by convention, even though its concrete encoding is documented.
func ParseID(id string) (int64, error) {
	rest, ok := strings.CutPrefix(id, IDPrefix)
	if !ok || rest == "" || strings.TrimLeft(rest, "0123456789") != "" {
		return 0, fmt.Errorf("job: invalid id %q", id)
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("job: invalid id %q: %w", id, err)
	}
	return n, nil
}

// Job is a durable record of one command to be executed by some worker,
// together with its current lifecycle state.
//
// Job instances are snapshots of storage state at the time they were
// read. Mutating fields directly does not change the underlying store;
// transitions are performed through the Store interface.
type Job struct {
	ID      int64
	Command string

	Status Status

	CreatedAt  time.Time
	StartedAt  *time.Time
	FinishedAt *time.Time

	AssignedNodeID *string

	TimeoutSeconds int
	Attempts       int
	MaxAttempts    int

	ExitCode      *int
	FailureReason *string

	ArtifactURLs []string
}

// ExternalID returns the job's external identifier, e.g. "job_42".
func (j *Job) ExternalID() string {
	return FormatID(j.ID)
}
