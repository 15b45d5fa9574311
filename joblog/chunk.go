package joblog

import "time"

// Chunk is one append-only fragment of a job's log. The concatenation of
// a job's chunks in ascending ID order is its log; chunks are never
// mutated, reordered, or deleted except together with the owning job.
type Chunk struct {
	ID        int64
	JobID     int64
	Text      string
	CreatedAt time.Time
}
