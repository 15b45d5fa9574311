package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sacchen/deborgen/job"
)

type createJobRequest struct {
	Command        string `json:"command"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	MaxAttempts    int    `json:"max_attempts"`
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Command == "" {
		writeError(w, http.StatusBadRequest, "command is required")
		return
	}
	j, err := s.service.CreateJob(r.Context(), req.Command, req.TimeoutSeconds, req.MaxAttempts)
	if err != nil {
		writeStoreError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, newJobView(j))
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var status *job.Status
	if raw := q.Get("status"); raw != "" {
		parsed, err := job.ParseStatus(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid status filter")
			return
		}
		status = &parsed
	}

	var limit *int
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "limit must be an integer")
			return
		}
		limit = &n
	}

	jobs, err := s.service.ListJobs(r.Context(), status, limit)
	if err != nil {
		writeStoreError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, newJobsListView(jobs))
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	j, err := s.service.GetJob(r.Context(), id)
	if err != nil {
		writeStoreError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, newJobView(j))
}

func (s *Server) handleClaimNextJob(w http.ResponseWriter, r *http.Request) {
	nodeID := r.URL.Query().Get("node_id")
	if nodeID == "" {
		writeError(w, http.StatusBadRequest, "node_id is required")
		return
	}
	j, lse, err := s.service.ClaimNextJob(r.Context(), nodeID)
	if err != nil {
		writeStoreError(w, s.log, err)
		return
	}
	if j == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, assignmentView{
		Job:        newJobView(j),
		LeaseToken: lse.Token,
	})
}

type finishJobRequest struct {
	NodeID        string  `json:"node_id"`
	LeaseToken    string  `json:"lease_token"`
	ExitCode      int     `json:"exit_code"`
	FailureReason *string `json:"failure_reason"`
}

func (s *Server) handleFinishJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req finishJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	j, err := s.service.FinishJob(r.Context(), id, req.NodeID, req.LeaseToken, req.ExitCode, req.FailureReason)
	if err != nil {
		writeStoreError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, newJobView(j))
}

type appendLogsRequest struct {
	NodeID     string `json:"node_id"`
	LeaseToken string `json:"lease_token"`
	Text       string `json:"text"`
}

type statusOKResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleAppendLogs(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req appendLogsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := s.service.AppendLogs(r.Context(), id, req.NodeID, req.LeaseToken, req.Text); err != nil {
		writeStoreError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, statusOKResponse{Status: "ok"})
}

type logsTextResponse struct {
	Text string `json:"text"`
}

func (s *Server) handleReadLogs(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	text, err := s.service.ReadLogs(r.Context(), id)
	if err != nil {
		writeStoreError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, logsTextResponse{Text: text})
}
