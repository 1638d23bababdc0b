// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/onto-project/ontobench/internal/domain/dedupe"
	"github.com/onto-project/ontobench/internal/domain/model"
	"github.com/onto-project/ontobench/pkg/metrics"
)

// SubmitDependencies defines the interface for submission intake.
type SubmitDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, sub model.Submission) bool
}

// SubmitHandler handles prediction-set submissions.
type SubmitHandler struct {
	deps SubmitDependencies
}

// NewSubmitHandler creates a new submit handler.
func NewSubmitHandler(deps SubmitDependencies) *SubmitHandler {
	return &SubmitHandler{deps: deps}
}

// HandlePostSubmission handles POST /submit requests. The submission is
// acknowledged with 202 and evaluated asynchronously; clients may supply
// their own submission id for idempotent retries, otherwise one is issued.
func (h *SubmitHandler) HandlePostSubmission(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_submission"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	id := strings.TrimSpace(req.SubmissionID)
	if id == "" {
		id = uuid.NewString()
	}

	sub, err := req.toSubmission(id, time.Now().UTC())
	if err != nil {
		metrics.RecordSubmissionRejected()
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check, mark as seen first.
	if h.deps.SeenAndRecord(r.Context(), id) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", SubmissionID: id, Duplicate: true})
		return
	}

	if ok := h.deps.Enqueue(r.Context(), sub); !ok {
		// Roll back the seen record so the client can retry.
		h.deps.Unrecord(r.Context(), id)
		metrics.RecordSubmissionRejected()
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", SubmissionID: id, Duplicate: false})
}
