package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sacchen/deborgen"
	"github.com/sacchen/deborgen/job"
)

func TestCreateAndGetJob(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateJob(ctx, "echo hi", 3600, 1)
	if err != nil {
		t.Fatal(err)
	}
	if created.Status != job.Queued {
		t.Fatalf("expected queued, got %v", created.Status)
	}
	if created.Attempts != 0 {
		t.Fatalf("expected 0 attempts, got %d", created.Attempts)
	}

	got, err := s.GetJob(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Command != "echo hi" {
		t.Fatalf("expected command roundtrip, got %q", got.Command)
	}
}

func TestGetJobNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetJob(context.Background(), 9999)
	if !errors.Is(err, deborgen.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestCreateJobRejectsNonPositiveFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateJob(ctx, "echo hi", 0, 1); err == nil {
		t.Fatal("expected error for non-positive timeout_seconds")
	}
	if _, err := s.CreateJob(ctx, "echo hi", 60, 0); err == nil {
		t.Fatal("expected error for non-positive max_attempts")
	}
}

func TestListJobsOrderAndFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var last *job.Job
	for i := 0; i < 3; i++ {
		j, err := s.CreateJob(ctx, "echo hi", 60, 1)
		if err != nil {
			t.Fatal(err)
		}
		last = j
	}

	jobs, err := s.ListJobs(ctx, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}
	if jobs[0].ID != last.ID {
		t.Fatalf("expected newest-first order, got head id %d want %d", jobs[0].ID, last.ID)
	}

	status := job.Running
	filtered, err := s.ListJobs(ctx, &status, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 0 {
		t.Fatalf("expected no running jobs, got %d", len(filtered))
	}
}

func TestListJobsRejectsOutOfRangeLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tooLow, tooHigh := 0, 1001
	if _, err := s.ListJobs(ctx, nil, &tooLow); !errors.Is(err, deborgen.ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit for limit=0, got %v", err)
	}
	if _, err := s.ListJobs(ctx, nil, &tooHigh); !errors.Is(err, deborgen.ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit for limit=1001, got %v", err)
	}
}
