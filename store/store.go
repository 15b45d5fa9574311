// Package store implements deborgen.Store on top of bun and SQLite,
// following the same shape as the teacher library's sql backend: bun
// models per table. Claiming a job mirrors the teacher's Pull — a single
// UPDATE ... WHERE id IN (subquery) ... RETURNING. Validating and
// transitioning a leased job mirrors the teacher's Complete/ExtendLock/
// Return/Kill — a single UPDATE carrying every ownership predicate in its
// WHERE clause, with RowsAffected (not a prior SELECT) detecting a lost
// race.
//
// SQLite allows only one writer at a time regardless of connection pool
// size, so Store additionally serializes every write operation behind an
// in-process mutex — the same reasoning the teacher's own test helper
// documents ("important for sqlite") when it caps the pool to one
// connection.
package store

import (
	"sync"

	"github.com/uptrace/bun"
)

// Store is a bun/SQLite-backed implementation of deborgen.Store.
type Store struct {
	db *bun.DB
	mu sync.Mutex
}

// NewStore wraps an initialized *bun.DB. Callers must run InitDB before
// first use.
func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}
