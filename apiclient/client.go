package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// transportTimeout is the per-request client-side timeout described in
// spec §5: client calls never block the coordinator's state machine,
// only the caller's own loop.
const transportTimeout = 30 * time.Second

// StatusError is returned when the coordinator answers with a non-2xx
// status. Detail is the parsed {"detail": "..."} body when present.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("apiclient: %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("apiclient: unexpected status %d", e.StatusCode)
}

// Client is a minimal HTTP client for the coordinator's wire protocol,
// shared by the worker agent and the CLI tools.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New returns a Client against baseURL, attaching Authorization: Bearer
// token to every request when token is non-empty.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: transportTimeout},
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("apiclient: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var detail struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&detail)
		return &StatusError{StatusCode: resp.StatusCode, Detail: detail.Detail}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("apiclient: decode response: %w", err)
	}
	return nil
}

// CreateJob submits a new job.
func (c *Client) CreateJob(ctx context.Context, command string, timeoutSeconds, maxAttempts int) (*Job, error) {
	var j Job
	body := map[string]any{"command": command}
	if timeoutSeconds != 0 {
		body["timeout_seconds"] = timeoutSeconds
	}
	if maxAttempts != 0 {
		body["max_attempts"] = maxAttempts
	}
	if err := c.do(ctx, http.MethodPost, "/jobs", nil, body, &j); err != nil {
		return nil, err
	}
	return &j, nil
}

// ListJobs lists jobs, optionally filtered by status and limit.
func (c *Client) ListJobs(ctx context.Context, status string, limit int) ([]Job, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if limit != 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out struct {
		Jobs []Job `json:"jobs"`
	}
	if err := c.do(ctx, http.MethodGet, "/jobs", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

// GetJob fetches a single job by its external id.
func (c *Client) GetJob(ctx context.Context, id string) (*Job, error) {
	var j Job
	if err := c.do(ctx, http.MethodGet, "/jobs/"+id, nil, nil, &j); err != nil {
		return nil, err
	}
	return &j, nil
}

// ClaimNextJob polls for the next eligible job. It returns (nil, nil)
// on 204 (empty queue).
func (c *Client) ClaimNextJob(ctx context.Context, nodeID string) (*Assignment, error) {
	var a Assignment
	q := url.Values{"node_id": {nodeID}}
	if err := c.do(ctx, http.MethodGet, "/jobs/next", q, nil, &a); err != nil {
		return nil, err
	}
	if a.Job.ID == "" {
		return nil, nil
	}
	return &a, nil
}

// FinishJob reports a job's terminal outcome.
func (c *Client) FinishJob(ctx context.Context, jobID, nodeID, leaseToken string, exitCode int, failureReason *string) (*Job, error) {
	var j Job
	body := map[string]any{
		"node_id":        nodeID,
		"lease_token":    leaseToken,
		"exit_code":      exitCode,
		"failure_reason": failureReason,
	}
	if err := c.do(ctx, http.MethodPost, "/jobs/"+jobID+"/finish", nil, body, &j); err != nil {
		return nil, err
	}
	return &j, nil
}

// AppendLogs uploads captured output for a running job.
func (c *Client) AppendLogs(ctx context.Context, jobID, nodeID, leaseToken, text string) error {
	body := map[string]any{
		"node_id":     nodeID,
		"lease_token": leaseToken,
		"text":        text,
	}
	return c.do(ctx, http.MethodPost, "/jobs/"+jobID+"/logs", nil, body, nil)
}

// ReadLogs fetches a job's concatenated log text.
func (c *Client) ReadLogs(ctx context.Context, jobID string) (string, error) {
	var out struct {
		Text string `json:"text"`
	}
	if err := c.do(ctx, http.MethodGet, "/jobs/"+jobID+"/logs", nil, nil, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

// Heartbeat upserts the calling node's registry entry.
func (c *Client) Heartbeat(ctx context.Context, nodeID, name string, labels map[string]any) (*Node, error) {
	var n Node
	body := map[string]any{"name": name, "labels": labels}
	if err := c.do(ctx, http.MethodPost, "/nodes/"+nodeID+"/heartbeat", nil, body, &n); err != nil {
		return nil, err
	}
	return &n, nil
}
