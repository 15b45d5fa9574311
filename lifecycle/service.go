package lifecycle

import (
	"context"
	"time"

	"github.com/sacchen/deborgen"
	"github.com/sacchen/deborgen/job"
	"github.com/sacchen/deborgen/lease"
	"github.com/sacchen/deborgen/node"
)

// Defaults mirror spec §3 and §4.2: a job with no explicit timeout or
// attempt budget gets an hour and a single try, and a Service built with
// a zero lease duration grants five-minute leases.
const (
	DefaultTimeoutSeconds = 3600
	DefaultMaxAttempts    = 1
	DefaultLeaseDuration  = 5 * time.Minute
)

// Service enforces the state-machine transitions over a deborgen.Store,
// keeping id-translation and default-policy decisions in one place so
// the HTTP surface can be mechanical.
type Service struct {
	store         deborgen.Store
	leaseDuration time.Duration
}

// New returns a Service backed by store. leaseDuration configures how
// long a claimed job's lease remains valid before ClaimNextJob's caller
// must finish or log against it; zero selects DefaultLeaseDuration.
func New(store deborgen.Store, leaseDuration time.Duration) *Service {
	if leaseDuration == 0 {
		leaseDuration = DefaultLeaseDuration
	}
	return &Service{store: store, leaseDuration: leaseDuration}
}

// CreateJob inserts a new queued job. A zero timeoutSeconds or
// maxAttempts is replaced by its documented default rather than
// rejected, since both are optional on the wire (spec §6.1).
func (s *Service) CreateJob(ctx context.Context, command string, timeoutSeconds, maxAttempts int) (*job.Job, error) {
	if timeoutSeconds == 0 {
		timeoutSeconds = DefaultTimeoutSeconds
	}
	if maxAttempts == 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return s.store.CreateJob(ctx, command, timeoutSeconds, maxAttempts)
}

// ListJobs forwards to the store unchanged.
func (s *Service) ListJobs(ctx context.Context, status *job.Status, limit *int) ([]*job.Job, error) {
	return s.store.ListJobs(ctx, status, limit)
}

// GetJob resolves the external id and returns the job, or
// ErrJobNotFound if the id does not parse or no such job exists.
func (s *Service) GetJob(ctx context.Context, externalID string) (*job.Job, error) {
	id, err := job.ParseID(externalID)
	if err != nil {
		return nil, deborgen.ErrJobNotFound
	}
	return s.store.GetJob(ctx, id)
}

// ClaimNextJob claims the next eligible job for nodeID using the
// service's configured lease duration. It returns (nil, nil, nil) if no
// job is eligible.
func (s *Service) ClaimNextJob(ctx context.Context, nodeID string) (*job.Job, *lease.Lease, error) {
	return s.store.ClaimNextJob(ctx, nodeID, s.leaseDuration)
}

// FinishJob resolves externalID and transitions the job to a terminal
// state, validating the caller's lease. A malformed id is reported as
// ErrJobNotFound, consistent with GetJob.
func (s *Service) FinishJob(ctx context.Context, externalID string, nodeID, leaseToken string, exitCode int, failureReason *string) (*job.Job, error) {
	id, err := job.ParseID(externalID)
	if err != nil {
		return nil, deborgen.ErrJobNotFound
	}
	return s.store.FinishJob(ctx, id, nodeID, leaseToken, exitCode, failureReason)
}

// AppendLogs resolves externalID and appends one log chunk, subject to
// the same lease validation as FinishJob.
func (s *Service) AppendLogs(ctx context.Context, externalID string, nodeID, leaseToken, text string) error {
	id, err := job.ParseID(externalID)
	if err != nil {
		return deborgen.ErrJobNotFound
	}
	return s.store.AppendLogs(ctx, id, nodeID, leaseToken, text)
}

// ReadLogs resolves externalID and returns the job's concatenated log
// text. No lease is required.
func (s *Service) ReadLogs(ctx context.Context, externalID string) (string, error) {
	id, err := job.ParseID(externalID)
	if err != nil {
		return "", deborgen.ErrJobNotFound
	}
	return s.store.ReadLogs(ctx, id)
}

// HeartbeatNode upserts a node's registry entry.
func (s *Service) HeartbeatNode(ctx context.Context, nodeID, name string, labels node.Labels) (*node.Node, error) {
	return s.store.HeartbeatNode(ctx, nodeID, name, labels)
}
