package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sacchen/deborgen"
	"github.com/sacchen/deborgen/job"
)

func TestFinishJobSuccess(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateJob(ctx, "echo hi", 60, 1)
	if err != nil {
		t.Fatal(err)
	}
	_, lse, err := s.ClaimNextJob(ctx, "node-1", time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	finished, err := s.FinishJob(ctx, created.ID, "node-1", lse.Token, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if finished.Status != job.Succeeded {
		t.Fatalf("expected succeeded, got %v", finished.Status)
	}
	if finished.FinishedAt == nil {
		t.Fatal("expected finished_at to be set")
	}
}

func TestFinishJobNonZeroExitFails(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, _ := s.CreateJob(ctx, "false", 60, 1)
	_, lse, _ := s.ClaimNextJob(ctx, "node-1", time.Minute)

	reason := "nonzero exit"
	finished, err := s.FinishJob(ctx, created.ID, "node-1", lse.Token, 1, &reason)
	if err != nil {
		t.Fatal(err)
	}
	if finished.Status != job.Failed {
		t.Fatalf("expected failed, got %v", finished.Status)
	}
}

func TestFinishJobWrongOwnerConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, _ := s.CreateJob(ctx, "echo hi", 60, 1)
	_, lse, _ := s.ClaimNextJob(ctx, "node-1", time.Minute)

	_, err := s.FinishJob(ctx, created.ID, "node-2", lse.Token, 0, nil)
	if !errors.Is(err, deborgen.ErrWrongOwner) {
		t.Fatalf("expected ErrWrongOwner, got %v", err)
	}
}

func TestFinishJobNotRunningConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, _ := s.CreateJob(ctx, "echo hi", 60, 1)

	_, err := s.FinishJob(ctx, created.ID, "node-1", "whatever", 0, nil)
	if !errors.Is(err, deborgen.ErrJobNotRunning) {
		t.Fatalf("expected ErrJobNotRunning, got %v", err)
	}
}

func TestFinishJobExpiredLeaseConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, _ := s.CreateJob(ctx, "echo hi", 60, 1)
	_, lse, _ := s.ClaimNextJob(ctx, "node-1", -time.Second)

	_, err := s.FinishJob(ctx, created.ID, "node-1", lse.Token, 0, nil)
	if !errors.Is(err, deborgen.ErrLeaseExpired) {
		t.Fatalf("expected ErrLeaseExpired, got %v", err)
	}
}

func TestFinishJobNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.FinishJob(context.Background(), 12345, "node-1", "x", 0, nil)
	if !errors.Is(err, deborgen.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}
