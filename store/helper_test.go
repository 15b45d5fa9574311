package store_test

import (
	"context"
	gosql "database/sql"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/sacchen/deborgen/store"

	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	sqlDB, err := gosql.Open("sqlite", "file::memory:?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1) // important for sqlite: a second connection sees an empty :memory: db
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	if err := store.InitDB(context.Background(), db); err != nil {
		t.Fatal(err)
	}
	return store.NewStore(db)
}
