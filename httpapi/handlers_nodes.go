package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sacchen/deborgen/node"
)

type heartbeatRequest struct {
	Name   string          `json:"name"`
	Labels json.RawMessage `json:"labels"`
}

func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "node_id")

	var req heartbeatRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed request body")
			return
		}
	}

	labels := node.Labels{}
	if len(req.Labels) > 0 {
		parsed, err := node.ParseLabels(req.Labels)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		labels = parsed
	}

	n, err := s.service.HeartbeatNode(r.Context(), nodeID, req.Name, labels)
	if err != nil {
		writeStoreError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, newNodeView(n))
}
