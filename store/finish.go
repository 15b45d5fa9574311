package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/sacchen/deborgen"
	"github.com/sacchen/deborgen/job"
)

// eligibleJobIDs selects the id of a running job currently covered by an
// unexpired lease matching nodeID/leaseToken. FinishJob and AppendLogs
// both fold this into the WHERE clause of their own UPDATE rather than
// checking it with a prior SELECT, so a concurrent finish/expiry is
// caught by RowsAffected instead of a race between check and act.
func eligibleJobIDs(tx bun.Tx, nodeID, leaseToken string, now time.Time) *bun.SelectQuery {
	return tx.NewSelect().
		Model((*jobModel)(nil)).
		Column("id").
		Where("status = ?", uint8(job.Running)).
		Where("id IN (?)", tx.NewSelect().
			Model((*leaseModel)(nil)).
			Column("job_id").
			Where("node_id = ?", nodeID).
			Where("lease_token = ?", leaseToken).
			Where("lease_expires_at > ?", now))
}

// diagnoseLeaseFailure runs only after an UPDATE guarded by
// eligibleJobIDs has affected zero rows. It re-reads the job and lease
// rows to report which precondition failed, the same split the teacher's
// ExtendLock/Complete/Return/Kill never need because they only ever
// report one sentinel error; deborgen's HTTP layer has to tell the five
// cases apart.
func diagnoseLeaseFailure(ctx context.Context, tx bun.Tx, id int64, nodeID, leaseToken string, now time.Time) error {
	var jm jobModel
	if err := tx.NewSelect().Model(&jm).Where("id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return deborgen.ErrJobNotFound
		}
		return fmt.Errorf("store: lookup job: %w", err)
	}
	if job.Status(jm.Status) != job.Running {
		return deborgen.ErrJobNotRunning
	}

	var lm leaseModel
	if err := tx.NewSelect().Model(&lm).Where("job_id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return deborgen.ErrNoActiveLease
		}
		return fmt.Errorf("store: lookup lease: %w", err)
	}
	if !lm.ExpiresAt.After(now) {
		return deborgen.ErrLeaseExpired
	}
	return deborgen.ErrWrongOwner
}

// FinishJob implements deborgen.Store.
func (s *Store) FinishJob(ctx context.Context, id int64, nodeID, leaseToken string, exitCode int, failureReason *string) (*job.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result *jobModel
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now().UTC()
		terminal := job.Failed
		if exitCode == 0 {
			terminal = job.Succeeded
		}

		res, err := tx.NewUpdate().
			Model((*jobModel)(nil)).
			Set("status = ?", uint8(terminal)).
			Set("exit_code = ?", exitCode).
			Set("failure_reason = ?", failureReason).
			Set("finished_at = ?", now).
			Where("id = ?", id).
			Where("id IN (?)", eligibleJobIDs(tx, nodeID, leaseToken, now)).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("store: finish job: %w", err)
		}
		if !isAffected(res) {
			return diagnoseLeaseFailure(ctx, tx, id, nodeID, leaseToken, now)
		}

		if _, err := tx.NewDelete().Model((*leaseModel)(nil)).Where("job_id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("store: delete lease: %w", err)
		}

		var jm jobModel
		if err := tx.NewSelect().Model(&jm).Where("id = ?", id).Scan(ctx); err != nil {
			return fmt.Errorf("store: reload job: %w", err)
		}
		result = &jm
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result.toJob(), nil
}
