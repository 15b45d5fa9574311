package httpapi

import (
	"time"

	"github.com/sacchen/deborgen/job"
	"github.com/sacchen/deborgen/node"
)

// jobView is the wire shape of a Job: the external job_<n> id in place
// of the numeric primary key, and nullable fields sent as JSON null
// rather than omitted.
type jobView struct {
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

func newJobView(j *job.Job) jobView {
	artifacts := j.ArtifactURLs
	if artifacts == nil {
		artifacts = []string{}
	}
	return jobView{
		ID:             j.ExternalID(),
		Command:        j.Command,
		Status:         j.Status.String(),
		CreatedAt:      j.CreatedAt,
		StartedAt:      j.StartedAt,
		FinishedAt:     j.FinishedAt,
		AssignedNodeID: j.AssignedNodeID,
		TimeoutSeconds: j.TimeoutSeconds,
		Attempts:       j.Attempts,
		MaxAttempts:    j.MaxAttempts,
		ExitCode:       j.ExitCode,
		FailureReason:  j.FailureReason,
		ArtifactURLs:   artifacts,
	}
}

// jobsListView wraps a job list per spec §6.1: {"jobs": [Job...]}.
type jobsListView struct {
	Jobs []jobView `json:"jobs"`
}

func newJobsListView(jobs []*job.Job) jobsListView {
	views := make([]jobView, len(jobs))
	for i, j := range jobs {
		views[i] = newJobView(j)
	}
	return jobsListView{Jobs: views}
}

// assignmentView is the wire shape returned by GET /jobs/next.
type assignmentView struct {
	Job        jobView `json:"job"`
	LeaseToken string  `json:"lease_token"`
}

// nodeView is the wire shape of a Node.
type nodeView struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Labels     node.Labels `json:"labels"`
	LastSeenAt time.Time   `json:"last_seen_at"`
}

func newNodeView(n *node.Node) nodeView {
	labels := n.Labels
	if labels == nil {
		labels = node.Labels{}
	}
	return nodeView{
		ID:         n.ID,
		Name:       n.Name,
		Labels:     labels,
		LastSeenAt: n.LastSeenAt,
	}
}
