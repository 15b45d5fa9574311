package store

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/sacchen/deborgen/node"
)

// HeartbeatNode implements deborgen.Store.
//
// On conflict, name is overwritten only if non-empty and labels are
// overwritten only if non-empty, so an idle heartbeat that omits them
// does not erase previously reported values. last_seen_at always
// advances.
func (s *Store) HeartbeatNode(ctx context.Context, nodeID string, name string, labels node.Labels) (*node.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	m := &nodeModel{
		ID:         nodeID,
		Name:       name,
		Labels:     labels,
		LastSeenAt: now,
	}

	var out nodeModel
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(m).
			On("CONFLICT (id) DO UPDATE").
			Set("name = CASE WHEN EXCLUDED.name != '' THEN EXCLUDED.name ELSE nodes.name END").
			Set("labels = CASE WHEN EXCLUDED.labels IS NOT NULL AND EXCLUDED.labels != '{}' THEN EXCLUDED.labels ELSE nodes.labels END").
			Set("last_seen_at = EXCLUDED.last_seen_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("store: heartbeat node: %w", err)
		}
		if err := tx.NewSelect().Model(&out).Where("id = ?", nodeID).Scan(ctx); err != nil {
			return fmt.Errorf("store: heartbeat node: reload: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out.toNode(), nil
}
