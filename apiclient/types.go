package apiclient

import "time"

// Job mirrors the coordinator's wire shape for a job (see httpapi.jobView).
type Job struct {
	ID             string     `json:"id"`
	Command        string     `json:"command"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	StartedAt      *time.Time `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at"`
	AssignedNodeID *string    `json:"assigned_node_id"`
	TimeoutSeconds int        `json:"timeout_seconds"`
	Attempts       int        `json:"attempts"`
	MaxAttempts    int        `json:"max_attempts"`
	ExitCode       *int       `json:"exit_code"`
	FailureReason  *string    `json:"failure_reason"`
	ArtifactURLs   []string   `json:"artifact_urls"`
}

// Assignment is the wire shape of a successful claim.
type Assignment struct {
	Job        Job    `json:"job"`
	LeaseToken string `json:"lease_token"`
}

// Node mirrors the coordinator's wire shape for a node.
type Node struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Labels     map[string]any `json:"labels"`
	LastSeenAt time.Time      `json:"last_seen_at"`
}
