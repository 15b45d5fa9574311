package store

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/sacchen/deborgen/job"
	"github.com/sacchen/deborgen/lease"
)

// ClaimNextJob implements deborgen.Store.
//
// Selection and transition happen as a single UPDATE ... WHERE id IN
// (subquery) ... RETURNING statement, mirroring the teacher's Pull: the
// subquery picks the smallest eligible id, and the UPDATE's own WHERE
// clause repeats the eligibility predicate so a second concurrent caller
// racing on the same subquery result still only transitions the row if
// it is still eligible. The store-wide mutex makes this moot for
// SQLite's single writer, but the predicate is correct even without it.
func (s *Store) ClaimNextJob(ctx context.Context, nodeID string, leaseDuration time.Duration) (*job.Job, *lease.Lease, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var claimed *jobModel
	var lm *leaseModel

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now().UTC()

		subQuery := tx.NewSelect().
			Model((*jobModel)(nil)).
			Column("id").
			Where("status = ?", uint8(job.Queued)).
			Where("attempts < max_attempts").
			OrderExpr("id ASC").
			Limit(1)

		var rows []*jobModel
		err := tx.NewUpdate().
			Model((*jobModel)(nil)).
			Set("status = ?", uint8(job.Running)).
			Set("assigned_node_id = ?", nodeID).
			Set("started_at = ?", now).
			Set("attempts = attempts + 1").
			Where("id IN (?)", subQuery).
			Where("status = ?", uint8(job.Queued)).
			Where("attempts < max_attempts").
			Returning("*").
			Scan(ctx, &rows)
		if err != nil {
			return fmt.Errorf("store: claim job: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		claimed = rows[0]

		token, err := lease.NewToken()
		if err != nil {
			return err
		}
		lm = &leaseModel{
			JobID:     claimed.ID,
			NodeID:    nodeID,
			Token:     token,
			ExpiresAt: now.Add(leaseDuration),
		}
		if _, err := tx.NewInsert().Model(lm).Exec(ctx); err != nil {
			return fmt.Errorf("store: insert lease: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if claimed == nil {
		return nil, nil, nil
	}
	return claimed.toJob(), lm.toLease(), nil
}
