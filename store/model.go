package store

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/sacchen/deborgen/job"
	"github.com/sacchen/deborgen/joblog"
	"github.com/sacchen/deborgen/lease"
	"github.com/sacchen/deborgen/node"
)

type jobModel struct {
	bun.BaseModel `bun:"table:jobs"`
	ID            int64 `bun:"id,pk,autoincrement"`

	Command string `bun:"command,notnull"`
	Status  uint8  `bun:"status,notnull"`

	CreatedAt  time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	StartedAt  *time.Time `bun:"started_at,nullzero"`
	FinishedAt *time.Time `bun:"finished_at,nullzero"`

	AssignedNodeID *string `bun:"assigned_node_id,nullzero"`

	TimeoutSeconds int `bun:"timeout_seconds,notnull"`
	Attempts       int `bun:"attempts,notnull,default:0"`
	MaxAttempts    int `bun:"max_attempts,notnull,default:1"`

	ExitCode      *int    `bun:"exit_code,nullzero"`
	FailureReason *string `bun:"failure_reason,nullzero"`

	ArtifactURLs []string `bun:"artifact_urls,type:jsonb"`
}

func (m *jobModel) toJob() *job.Job {
	return &job.Job{
		ID:             m.ID,
		Command:        m.Command,
		Status:         job.Status(m.Status),
		CreatedAt:      m.CreatedAt,
		StartedAt:      m.StartedAt,
		FinishedAt:     m.FinishedAt,
		AssignedNodeID: m.AssignedNodeID,
		TimeoutSeconds: m.TimeoutSeconds,
		Attempts:       m.Attempts,
		MaxAttempts:    m.MaxAttempts,
		ExitCode:       m.ExitCode,
		FailureReason:  m.FailureReason,
		ArtifactURLs:   m.ArtifactURLs,
	}
}

type leaseModel struct {
	bun.BaseModel `bun:"table:leases"`
	JobID         int64 `bun:"job_id,pk"`

	NodeID    string    `bun:"node_id,notnull"`
	Token     string    `bun:"lease_token,notnull"`
	ExpiresAt time.Time `bun:"lease_expires_at,notnull"`
}

func (m *leaseModel) toLease() *lease.Lease {
	return &lease.Lease{
		JobID:     m.JobID,
		NodeID:    m.NodeID,
		Token:     m.Token,
		ExpiresAt: m.ExpiresAt,
	}
}

type logModel struct {
	bun.BaseModel `bun:"table:logs"`
	ID            int64 `bun:"id,pk,autoincrement"`

	JobID     int64     `bun:"job_id,notnull"`
	Text      string    `bun:"text,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func (m *logModel) toChunk() *joblog.Chunk {
	return &joblog.Chunk{
		ID:        m.ID,
		JobID:     m.JobID,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

type nodeModel struct {
	bun.BaseModel `bun:"table:nodes"`
	ID            string `bun:"id,pk"`

	Name       string      `bun:"name,notnull"`
	Labels     node.Labels `bun:"labels,type:jsonb"`
	LastSeenAt time.Time   `bun:"last_seen_at,nullzero,notnull,default:current_timestamp"`
}

func (m *nodeModel) toNode() *node.Node {
	return &node.Node{
		ID:         m.ID,
		Name:       m.Name,
		Labels:     m.Labels,
		LastSeenAt: m.LastSeenAt,
	}
}
