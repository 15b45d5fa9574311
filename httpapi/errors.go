package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sacchen/deborgen"
)

// errorDetail is the JSON body shape of every non-2xx response:
// {"detail": "..."}. The detail string is part of the wire contract
// for state-conflict responses (spec §4.1, §7).
type errorDetail struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorDetail{Detail: detail})
}

// writeStoreError maps a deborgen sentinel error to its wire status
// code and detail string, falling back to 500 for anything else —
// an internal invariant violation, per spec §7, is a bug, not a
// client-distinguishable condition.
func writeStoreError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, deborgen.ErrJobNotFound):
		writeError(w, http.StatusNotFound, "job not found")
	case errors.Is(err, deborgen.ErrJobNotRunning):
		writeError(w, http.StatusConflict, deborgen.ErrJobNotRunning.Error())
	case errors.Is(err, deborgen.ErrNoActiveLease):
		writeError(w, http.StatusConflict, deborgen.ErrNoActiveLease.Error())
	case errors.Is(err, deborgen.ErrLeaseExpired):
		writeError(w, http.StatusConflict, deborgen.ErrLeaseExpired.Error())
	case errors.Is(err, deborgen.ErrWrongOwner):
		writeError(w, http.StatusConflict, deborgen.ErrWrongOwner.Error())
	case errors.Is(err, deborgen.ErrInvalidLimit):
		writeError(w, http.StatusUnprocessableEntity, deborgen.ErrInvalidLimit.Error())
	default:
		log.Error("internal error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
