package httpapi_test

import (
	"bytes"
	"context"
	gosql "database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/sacchen/deborgen/httpapi"
	"github.com/sacchen/deborgen/lifecycle"
	"github.com/sacchen/deborgen/store"

	_ "modernc.org/sqlite"
)

func newTestServer(t *testing.T, token string, leaseDuration time.Duration) *httptest.Server {
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
	svc := lifecycle.New(store.NewStore(db), leaseDuration)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(httpapi.New(svc, token, log))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any, token string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatal(err)
	}
}

func TestHappyPath(t *testing.T) {
	srv := newTestServer(t, "", time.Minute)

	createResp := doJSON(t, http.MethodPost, srv.URL+"/jobs", map[string]any{
		"command":      "python -c 'print(42)'",
		"max_attempts": 1,
	}, "")
	if createResp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", createResp.StatusCode)
	}
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeBody(t, createResp, &created)
	if created.Status != "queued" {
		t.Fatalf("expected queued, got %q", created.Status)
	}

	claimResp := doJSON(t, http.MethodGet, srv.URL+"/jobs/next?node_id=node-1", nil, "")
	if claimResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", claimResp.StatusCode)
	}
	var assignment struct {
		Job struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"job"`
		LeaseToken string `json:"lease_token"`
	}
	decodeBody(t, claimResp, &assignment)
	if assignment.Job.Status != "running" {
		t.Fatalf("expected running, got %q", assignment.Job.Status)
	}

	finishResp := doJSON(t, http.MethodPost, srv.URL+"/jobs/"+assignment.Job.ID+"/finish", map[string]any{
		"node_id":     "node-1",
		"lease_token": assignment.LeaseToken,
		"exit_code":   0,
	}, "")
	if finishResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", finishResp.StatusCode)
	}
	var finished struct {
		Status     string  `json:"status"`
		FinishedAt *string `json:"finished_at"`
	}
	decodeBody(t, finishResp, &finished)
	if finished.Status != "succeeded" {
		t.Fatalf("expected succeeded, got %q", finished.Status)
	}
	if finished.FinishedAt == nil {
		t.Fatal("expected finished_at to be set")
	}

	getResp := doJSON(t, http.MethodGet, srv.URL+"/jobs/"+assignment.Job.ID, nil, "")
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", getResp.StatusCode)
	}
	var got struct {
		Status string `json:"status"`
	}
	decodeBody(t, getResp, &got)
	if got.Status != "succeeded" {
		t.Fatalf("expected succeeded on reload, got %q", got.Status)
	}
}

func TestEmptyQueueReturns204(t *testing.T) {
	srv := newTestServer(t, "", time.Minute)
	resp := doJSON(t, http.MethodGet, srv.URL+"/jobs/next?node_id=node-1", nil, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
}

func TestOwnershipConflict(t *testing.T) {
	srv := newTestServer(t, "", time.Minute)

	createResp := doJSON(t, http.MethodPost, srv.URL+"/jobs", map[string]any{"command": "echo hi"}, "")
	var created struct {
		ID string `json:"id"`
	}
	decodeBody(t, createResp, &created)

	claimResp := doJSON(t, http.MethodGet, srv.URL+"/jobs/next?node_id=node-1", nil, "")
	var assignment struct {
		LeaseToken string `json:"lease_token"`
	}
	decodeBody(t, claimResp, &assignment)

	conflictResp := doJSON(t, http.MethodPost, srv.URL+"/jobs/"+created.ID+"/finish", map[string]any{
		"node_id":     "node-2",
		"lease_token": assignment.LeaseToken,
		"exit_code":   0,
	}, "")
	if conflictResp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", conflictResp.StatusCode)
	}
	var detail struct {
		Detail string `json:"detail"`
	}
	decodeBody(t, conflictResp, &detail)
	if !bytes.Contains([]byte(detail.Detail), []byte("different worker")) {
		t.Fatalf("expected detail to mention different worker, got %q", detail.Detail)
	}
}

func TestExpiredLeaseConflictsOnFinishAndLogs(t *testing.T) {
	srv := newTestServer(t, "", -time.Second)

	createResp := doJSON(t, http.MethodPost, srv.URL+"/jobs", map[string]any{"command": "echo hi"}, "")
	var created struct {
		ID string `json:"id"`
	}
	decodeBody(t, createResp, &created)

	claimResp := doJSON(t, http.MethodGet, srv.URL+"/jobs/next?node_id=node-1", nil, "")
	var assignment struct {
		LeaseToken string `json:"lease_token"`
	}
	decodeBody(t, claimResp, &assignment)

	finishResp := doJSON(t, http.MethodPost, srv.URL+"/jobs/"+created.ID+"/finish", map[string]any{
		"node_id":     "node-1",
		"lease_token": assignment.LeaseToken,
		"exit_code":   0,
	}, "")
	assertExpiredLeaseConflict(t, finishResp)

	logsResp := doJSON(t, http.MethodPost, srv.URL+"/jobs/"+created.ID+"/logs", map[string]any{
		"node_id":     "node-1",
		"lease_token": assignment.LeaseToken,
		"text":        "line 1\n",
	}, "")
	assertExpiredLeaseConflict(t, logsResp)
}

func assertExpiredLeaseConflict(t *testing.T, resp *http.Response) {
	t.Helper()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	var detail struct {
		Detail string `json:"detail"`
	}
	decodeBody(t, resp, &detail)
	if detail.Detail != "lease has expired" {
		t.Fatalf("expected %q, got %q", "lease has expired", detail.Detail)
	}
}

func TestAuthGate(t *testing.T) {
	srv := newTestServer(t, "secret-token", time.Minute)

	withoutHeader := doJSON(t, http.MethodPost, srv.URL+"/jobs", map[string]any{"command": "echo hi"}, "")
	if withoutHeader.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without header, got %d", withoutHeader.StatusCode)
	}

	withHeader := doJSON(t, http.MethodPost, srv.URL+"/jobs", map[string]any{"command": "echo hi"}, "secret-token")
	if withHeader.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 with correct token, got %d", withHeader.StatusCode)
	}
}

func TestAuthGateOpenWhenTokenUnset(t *testing.T) {
	srv := newTestServer(t, "", time.Minute)
	resp := doJSON(t, http.MethodPost, srv.URL+"/jobs", map[string]any{"command": "echo hi"}, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 when no token configured, got %d", resp.StatusCode)
	}
}

func TestHealthNeverRequiresAuth(t *testing.T) {
	srv := newTestServer(t, "secret-token", time.Minute)
	resp := doJSON(t, http.MethodGet, srv.URL+"/health", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on /health without auth, got %d", resp.StatusCode)
	}
}

func TestLogsRoundTrip(t *testing.T) {
	srv := newTestServer(t, "", time.Minute)

	createResp := doJSON(t, http.MethodPost, srv.URL+"/jobs", map[string]any{"command": "echo hi"}, "")
	var created struct {
		ID string `json:"id"`
	}
	decodeBody(t, createResp, &created)

	claimResp := doJSON(t, http.MethodGet, srv.URL+"/jobs/next?node_id=node-1", nil, "")
	var assignment struct {
		LeaseToken string `json:"lease_token"`
	}
	decodeBody(t, claimResp, &assignment)

	appendResp := doJSON(t, http.MethodPost, srv.URL+"/jobs/"+created.ID+"/logs", map[string]any{
		"node_id":     "node-1",
		"lease_token": assignment.LeaseToken,
		"text":        "line 1\n",
	}, "")
	if appendResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", appendResp.StatusCode)
	}

	readResp := doJSON(t, http.MethodGet, srv.URL+"/jobs/"+created.ID+"/logs", nil, "")
	if readResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", readResp.StatusCode)
	}
	var logs struct {
		Text string `json:"text"`
	}
	decodeBody(t, readResp, &logs)
	if logs.Text != "line 1\n" {
		t.Fatalf("expected round-tripped text, got %q", logs.Text)
	}
}

func TestListJobsRejectsOutOfRangeLimit(t *testing.T) {
	srv := newTestServer(t, "", time.Minute)
	resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/jobs?limit=0", srv.URL), nil, "")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestGetJobNotFound(t *testing.T) {
	srv := newTestServer(t, "", time.Minute)
	resp := doJSON(t, http.MethodGet, srv.URL+"/jobs/job_9999", nil, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestHeartbeatUpsertsNode(t *testing.T) {
	srv := newTestServer(t, "", time.Minute)
	resp := doJSON(t, http.MethodPost, srv.URL+"/nodes/node-1/heartbeat", map[string]any{
		"name":   "worker-a",
		"labels": map[string]any{"gpu": "rtx3060", "cpu_cores": 12},
	}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var n struct {
		ID     string         `json:"id"`
		Name   string         `json:"name"`
		Labels map[string]any `json:"labels"`
	}
	decodeBody(t, resp, &n)
	if n.Name != "worker-a" {
		t.Fatalf("expected name round-trip, got %q", n.Name)
	}
	if n.Labels["gpu"] != "rtx3060" {
		t.Fatalf("expected gpu label round-trip, got %v", n.Labels["gpu"])
	}
}
