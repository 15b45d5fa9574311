package workeragent

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/sacchen/deborgen/apiclient"
)

const (
	notRunning = iota
	running
)

var (
	// ErrAlreadyRunning is returned by Start when the agent is already
	// running.
	ErrAlreadyRunning = errors.New("deborgen: worker agent already running")

	// ErrNotRunning is returned by Stop when the agent is not running.
	ErrNotRunning = errors.New("deborgen: worker agent not running")

	// ErrStopTimeout is returned by Stop when the heartbeat and main
	// loops fail to drain within the given timeout. The loops may still
	// be winding down in the background.
	ErrStopTimeout = errors.New("deborgen: worker agent stop timed out")
)

// Agent is one worker process: it heartbeats on its own schedule while
// polling, executing, and reporting in its main loop. Heartbeating runs
// concurrently with the main loop, rather than being checked once per
// poll iteration, so a long-running job execution never starves it.
type Agent struct {
	client *apiclient.Client
	cfg    Config
	log    *slog.Logger

	state atomic.Int32

	cancelHeartbeat context.CancelFunc
	heartbeatDone   chan struct{}
	mainDone        chan struct{}
}

// New builds an Agent. The agent is not started automatically.
func New(cfg Config, log *slog.Logger) *Agent {
	cfg = cfg.withDefaults()
	return &Agent{
		client: apiclient.New(cfg.Coordinator, cfg.Token),
		cfg:    cfg,
		log:    log,
	}
}

// Start begins the heartbeat loop and the main poll/execute/report loop.
// Start returns ErrAlreadyRunning if the agent is already running.
func (a *Agent) Start(ctx context.Context) error {
	if !a.state.CompareAndSwap(notRunning, running) {
		return ErrAlreadyRunning
	}

	heartbeatCtx, cancel := context.WithCancel(ctx)
	a.cancelHeartbeat = cancel
	a.heartbeatDone = make(chan struct{})
	go a.runHeartbeat(heartbeatCtx)

	a.mainDone = make(chan struct{})
	go func() {
		defer close(a.mainDone)
		a.mainLoop(ctx)
	}()
	return nil
}

// Stop cancels the heartbeat loop and waits up to timeout for both it and
// the main loop to drain. Stop returns ErrNotRunning if the agent was
// never started, or ErrStopTimeout if the loops did not stop in time.
func (a *Agent) Stop(timeout time.Duration) error {
	if !a.state.CompareAndSwap(running, notRunning) {
		return ErrNotRunning
	}
	a.cancelHeartbeat()

	drained := make(chan struct{})
	go func() {
		<-a.heartbeatDone
		<-a.mainDone
		close(drained)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-drained:
		return nil
	case <-timer.C:
		return ErrStopTimeout
	}
}

// runHeartbeat sends a heartbeat immediately and then once per
// HeartbeatInterval until ctx is cancelled.
func (a *Agent) runHeartbeat(ctx context.Context) {
	defer close(a.heartbeatDone)
	ticker := time.NewTicker(a.cfg.HeartbeatInterval)
	defer ticker.Stop()
	a.sendHeartbeat(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.sendHeartbeat(ctx)
		}
	}
}

func (a *Agent) sendHeartbeat(ctx context.Context) {
	if _, err := a.client.Heartbeat(ctx, a.cfg.NodeID, a.cfg.Name, a.cfg.Labels); err != nil {
		a.log.Warn("heartbeat failed", "err", err)
	}
}

// mainLoop polls for work until ctx is cancelled, sleeping PollInterval
// between an empty queue or a failed poll.
func (a *Agent) mainLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		assignment, err := a.client.ClaimNextJob(ctx, a.cfg.NodeID)
		if err != nil {
			a.log.Warn("poll failed", "err", err)
			if !sleepOrDone(ctx, a.cfg.PollInterval) {
				return
			}
			continue
		}
		if assignment == nil {
			if !sleepOrDone(ctx, a.cfg.PollInterval) {
				return
			}
			continue
		}

		a.runAndReport(ctx, assignment)
	}
}

func (a *Agent) runAndReport(ctx context.Context, assignment *apiclient.Assignment) {
	jobID := assignment.Job.ID
	timeout := time.Duration(assignment.Job.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = time.Hour
	}

	a.log.Info("running job", "id", jobID, "command", assignment.Job.Command)
	res := runJob(ctx, assignment.Job.Command, timeout, a.cfg.WorkDir)

	if res.Text != "" {
		if err := a.client.AppendLogs(ctx, jobID, a.cfg.NodeID, assignment.LeaseToken, res.Text); err != nil {
			a.log.Warn("log upload failed", "id", jobID, "err", err)
		}
	}

	var failureReason *string
	if res.FailureReason != "" {
		reason := res.FailureReason
		failureReason = &reason
	}
	if _, err := a.client.FinishJob(ctx, jobID, a.cfg.NodeID, assignment.LeaseToken, res.ExitCode, failureReason); err != nil {
		a.log.Warn("finish report failed", "id", jobID, "err", err)
		return
	}
	a.log.Info("finished job", "id", jobID, "exit_code", res.ExitCode)
}

// sleepOrDone waits for d or ctx cancellation, reporting whether the
// wait completed normally (false means the caller should stop).
func sleepOrDone(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
