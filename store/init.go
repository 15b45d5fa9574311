package store

import (
	"context"
	"errors"

	"github.com/uptrace/bun"
)

func createJobsTable(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*jobModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func createLeasesTable(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*leaseModel)(nil)).
		IfNotExists().
		ForeignKey(`("job_id") REFERENCES "jobs" ("id") ON DELETE CASCADE`).
		Exec(ctx)
	return err
}

func createLogsTable(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*logModel)(nil)).
		IfNotExists().
		ForeignKey(`("job_id") REFERENCES "jobs" ("id") ON DELETE CASCADE`).
		Exec(ctx)
	return err
}

func createNodesTable(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*nodeModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func createJobsStatusIndex(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateIndex().
		Model((*jobModel)(nil)).
		Index("idx_jobs_status_id").
		Column("status", "id").
		IfNotExists().
		Exec(ctx)
	return err
}

func createLogsJobIndex(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateIndex().
		Model((*logModel)(nil)).
		Index("idx_logs_job_id").
		Column("job_id", "id").
		IfNotExists().
		Exec(ctx)
	return err
}

func initDB(ctx context.Context, db *bun.DB) error {
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	steps := []func(context.Context, bun.IDB) error{
		createJobsTable,
		createLeasesTable,
		createLogsTable,
		createNodesTable,
		createJobsStatusIndex,
		createLogsJobIndex,
	}
	for _, step := range steps {
		if err := step(ctx, tx); err != nil {
			return errors.Join(err, tx.Rollback())
		}
	}
	return tx.Commit()
}

// InitDB initializes the schema required by the store package: the
// jobs, leases, logs and nodes tables plus their indexes, inside a
// single transaction. It is idempotent and safe to call on every
// process start.
func InitDB(ctx context.Context, db *bun.DB) error {
	return initDB(ctx, db)
}

// MustInitDB behaves like InitDB but panics on failure. Intended for
// application bootstrap code, where a broken schema is unrecoverable.
func MustInitDB(ctx context.Context, db *bun.DB) {
	if err := initDB(ctx, db); err != nil {
		panic(err)
	}
}
