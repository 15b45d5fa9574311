package lifecycle_test

import (
	"context"
	gosql "database/sql"
	"errors"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/sacchen/deborgen"
	"github.com/sacchen/deborgen/job"
	"github.com/sacchen/deborgen/lifecycle"
	"github.com/sacchen/deborgen/store"

	_ "modernc.org/sqlite"
)

func newTestService(t *testing.T, leaseDuration time.Duration) *lifecycle.Service {
	t.Helper()
	sqlDB, err := gosql.Open("sqlite", "file::memory:?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	if err := store.InitDB(context.Background(), db); err != nil {
		t.Fatal(err)
	}
	return lifecycle.New(store.NewStore(db), leaseDuration)
}

func TestServiceCreateJobAppliesDefaults(t *testing.T) {
	svc := newTestService(t, time.Minute)
	j, err := svc.CreateJob(context.Background(), "echo hi", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if j.TimeoutSeconds != lifecycle.DefaultTimeoutSeconds {
		t.Fatalf("expected default timeout, got %d", j.TimeoutSeconds)
	}
	if j.MaxAttempts != lifecycle.DefaultMaxAttempts {
		t.Fatalf("expected default max_attempts, got %d", j.MaxAttempts)
	}
}

func TestServiceGetJobByExternalID(t *testing.T) {
	svc := newTestService(t, time.Minute)
	ctx := context.Background()

	created, err := svc.CreateJob(ctx, "echo hi", 60, 1)
	if err != nil {
		t.Fatal(err)
	}
	got, err := svc.GetJob(ctx, created.ExternalID())
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != created.ID {
		t.Fatalf("expected job %d, got %d", created.ID, got.ID)
	}
}

func TestServiceGetJobMalformedIDIsNotFound(t *testing.T) {
	svc := newTestService(t, time.Minute)
	_, err := svc.GetJob(context.Background(), "not-a-job-id")
	if !errors.Is(err, deborgen.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound for malformed id, got %v", err)
	}
}

func TestServiceOwnershipConflict(t *testing.T) {
	svc := newTestService(t, time.Minute)
	ctx := context.Background()

	created, err := svc.CreateJob(ctx, "echo hi", 60, 1)
	if err != nil {
		t.Fatal(err)
	}
	_, lse, err := svc.ClaimNextJob(ctx, "node-1")
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.FinishJob(ctx, created.ExternalID(), "node-2", lse.Token, 0, nil)
	if !errors.Is(err, deborgen.ErrWrongOwner) {
		t.Fatalf("expected ErrWrongOwner, got %v", err)
	}
}

func TestServiceExpiredLeaseRejectsFinishAndLogs(t *testing.T) {
	svc := newTestService(t, -time.Second)
	ctx := context.Background()

	created, err := svc.CreateJob(ctx, "echo hi", 60, 1)
	if err != nil {
		t.Fatal(err)
	}
	_, lse, err := svc.ClaimNextJob(ctx, "node-1")
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.FinishJob(ctx, created.ExternalID(), "node-1", lse.Token, 0, nil)
	if !errors.Is(err, deborgen.ErrLeaseExpired) {
		t.Fatalf("expected ErrLeaseExpired on finish, got %v", err)
	}

	err = svc.AppendLogs(ctx, created.ExternalID(), "node-1", lse.Token, "line 1\n")
	if !errors.Is(err, deborgen.ErrLeaseExpired) {
		t.Fatalf("expected ErrLeaseExpired on log append, got %v", err)
	}
}

func TestServiceFinishExitCodeDeterminesTerminalStatus(t *testing.T) {
	svc := newTestService(t, time.Minute)
	ctx := context.Background()

	created, err := svc.CreateJob(ctx, "echo hi", 60, 1)
	if err != nil {
		t.Fatal(err)
	}
	_, lse, err := svc.ClaimNextJob(ctx, "node-1")
	if err != nil {
		t.Fatal(err)
	}

	finished, err := svc.FinishJob(ctx, created.ExternalID(), "node-1", lse.Token, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if finished.Status != job.Succeeded {
		t.Fatalf("expected succeeded for exit_code=0, got %v", finished.Status)
	}
}

func TestServiceLogsRoundTrip(t *testing.T) {
	svc := newTestService(t, time.Minute)
	ctx := context.Background()

	created, err := svc.CreateJob(ctx, "echo hi", 60, 1)
	if err != nil {
		t.Fatal(err)
	}
	_, lse, err := svc.ClaimNextJob(ctx, "node-1")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.AppendLogs(ctx, created.ExternalID(), "node-1", lse.Token, "line 1\n"); err != nil {
		t.Fatal(err)
	}

	text, err := svc.ReadLogs(ctx, created.ExternalID())
	if err != nil {
		t.Fatal(err)
	}
	if text != "line 1\n" {
		t.Fatalf("expected round-tripped log text, got %q", text)
	}
}

func TestServiceClaimNextJobEmptyQueue(t *testing.T) {
	svc := newTestService(t, time.Minute)
	j, lse, err := svc.ClaimNextJob(context.Background(), "node-1")
	if err != nil {
		t.Fatal(err)
	}
	if j != nil || lse != nil {
		t.Fatalf("expected no claim on an empty queue, got job=%v lease=%v", j, lse)
	}
}
