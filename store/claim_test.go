package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/sacchen/deborgen/job"
)

func TestClaimNextJobTransitionsAndMintsLease(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateJob(ctx, "echo hi", 60, 1)
	if err != nil {
		t.Fatal(err)
	}

	claimed, lse, err := s.ClaimNextJob(ctx, "node-1", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if claimed == nil {
		t.Fatal("expected a claimed job")
	}
	if claimed.ID != created.ID {
		t.Fatalf("expected job %d, got %d", created.ID, claimed.ID)
	}
	if claimed.Status != job.Running {
		t.Fatalf("expected running, got %v", claimed.Status)
	}
	if claimed.Attempts != 1 {
		t.Fatalf("expected attempts=1, got %d", claimed.Attempts)
	}
	if claimed.StartedAt == nil {
		t.Fatal("expected started_at to be set")
	}
	if lse.NodeID != "node-1" {
		t.Fatalf("expected lease owned by node-1, got %q", lse.NodeID)
	}
	if len(lse.Token) == 0 {
		t.Fatal("expected a non-empty lease token")
	}
}

func TestClaimNextJobEmptyQueue(t *testing.T) {
	s := newTestStore(t)
	job, lse, err := s.ClaimNextJob(context.Background(), "node-1", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if job != nil || lse != nil {
		t.Fatalf("expected no claim on an empty queue, got job=%v lease=%v", job, lse)
	}
}

func TestClaimNextJobIsFIFO(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateJob(ctx, "first", 60, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateJob(ctx, "second", 60, 1); err != nil {
		t.Fatal(err)
	}

	claimed, _, err := s.ClaimNextJob(ctx, "node-1", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if claimed.ID != first.ID {
		t.Fatalf("expected FIFO claim of %d, got %d", first.ID, claimed.ID)
	}
}

func TestClaimNextJobDoesNotReclaimClaimedJob(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateJob(ctx, "only one try", 60, 1); err != nil {
		t.Fatal(err)
	}

	if _, _, err := s.ClaimNextJob(ctx, "node-1", time.Minute); err != nil {
		t.Fatal(err)
	}

	// The only job is now running (and attempts == max_attempts); a second
	// claim should see an empty queue.
	claimed, lse, err := s.ClaimNextJob(ctx, "node-2", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if claimed != nil || lse != nil {
		t.Fatal("expected no job eligible once the only job has been claimed")
	}
}
