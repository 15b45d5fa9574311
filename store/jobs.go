package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sacchen/deborgen"
	"github.com/sacchen/deborgen/job"
)

// CreateJob implements deborgen.Store.
func (s *Store) CreateJob(ctx context.Context, command string, timeoutSeconds, maxAttempts int) (*job.Job, error) {
	if timeoutSeconds <= 0 {
		return nil, fmt.Errorf("store: timeout_seconds must be positive, got %d", timeoutSeconds)
	}
	if maxAttempts <= 0 {
		return nil, fmt.Errorf("store: max_attempts must be positive, got %d", maxAttempts)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := &jobModel{
		Command:        command,
		Status:         uint8(job.Queued),
		TimeoutSeconds: timeoutSeconds,
		MaxAttempts:    maxAttempts,
		ArtifactURLs:   []string{},
	}
	if _, err := s.db.NewInsert().Model(m).Returning("*").Exec(ctx); err != nil {
		return nil, fmt.Errorf("store: create job: %w", err)
	}
	return m.toJob(), nil
}

// ListJobs implements deborgen.Store.
func (s *Store) ListJobs(ctx context.Context, status *job.Status, limit *int) ([]*job.Job, error) {
	if limit != nil && (*limit < 1 || *limit > 1000) {
		return nil, deborgen.ErrInvalidLimit
	}

	query := s.db.NewSelect().Model((*jobModel)(nil)).OrderExpr("id DESC")
	if status != nil {
		query = query.Where("status = ?", uint8(*status))
	}
	if limit != nil {
		query = query.Limit(*limit)
	}

	var rows []*jobModel
	if err := query.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("store: list jobs: %w", err)
	}
	jobs := make([]*job.Job, len(rows))
	for i, m := range rows {
		jobs[i] = m.toJob()
	}
	return jobs, nil
}

// GetJob implements deborgen.Store.
func (s *Store) GetJob(ctx context.Context, id int64) (*job.Job, error) {
	var m jobModel
	err := s.db.NewSelect().Model(&m).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, deborgen.ErrJobNotFound
		}
		return nil, fmt.Errorf("store: get job: %w", err)
	}
	return m.toJob(), nil
}
