package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/sacchen/deborgen"
)

// AppendLogs implements deborgen.Store.
func (s *Store) AppendLogs(ctx context.Context, id int64, nodeID, leaseToken, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now().UTC()

		// AppendLogs has nothing of its own to persist on the jobs or
		// leases row, so ownership is validated with a no-op touch
		// update (lease_expires_at reassigned its own value) guarded
		// by the same eligibility predicate FinishJob uses, and
		// RowsAffected reports whether it still held.
		res, err := tx.NewUpdate().
			Model((*leaseModel)(nil)).
			Set("lease_expires_at = lease_expires_at").
			Where("job_id = ?", id).
			Where("job_id IN (?)", eligibleJobIDs(tx, nodeID, leaseToken, now)).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("store: validate lease: %w", err)
		}
		if !isAffected(res) {
			return diagnoseLeaseFailure(ctx, tx, id, nodeID, leaseToken, now)
		}

		chunk := &logModel{JobID: id, Text: text}
		if _, err := tx.NewInsert().Model(chunk).Exec(ctx); err != nil {
			return fmt.Errorf("store: append log: %w", err)
		}
		return nil
	})
}

// ReadLogs implements deborgen.Store.
func (s *Store) ReadLogs(ctx context.Context, id int64) (string, error) {
	var rows []*logModel
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var jm jobModel
		if err := tx.NewSelect().Model(&jm).Column("id").Where("id = ?", id).Scan(ctx); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return deborgen.ErrJobNotFound
			}
			return fmt.Errorf("store: read logs: %w", err)
		}
		if err := tx.NewSelect().Model(&rows).Where("job_id = ?", id).OrderExpr("id ASC").Scan(ctx); err != nil {
			return fmt.Errorf("store: read logs: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(r.Text)
	}
	return b.String(), nil
}
