package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/jwebster45206/roll-engine/pkg/protocol"
	"github.com/jwebster45206/roll-engine/pkg/rollreq"
)

// PromptEnqueuer is the slice of the prompt queue the narrator handler
// needs: replace a session's pending prompts with the latest message's.
type PromptEnqueuer interface {
	Enqueue(ctx context.Context, sessionID uuid.UUID, reqs ...rollreq.Request) error
	Clear(ctx context.Context, sessionID uuid.UUID) error
}

// NarratorRequest is one narrator message to process. SessionID is
// optional; when present the extracted requests become the session's
// pending roll prompts.
type NarratorRequest struct {
	SessionID uuid.UUID `json:"session_id,omitempty"`
	Text      string    `json:"text"`
}

// NarratorResponse carries everything the session layer needs to render
// the message: the player-visible text (structured blocks stripped),
// the extracted roll requests, the protocol report, and a suggested
// rewrite when the message broke protocol.
type NarratorResponse struct {
	Text       string            `json:"text"`
	Requests   []rollreq.Request `json:"requests"`
	Validation protocol.Report   `json:"validation"`
	Suggestion string            `json:"suggestion,omitempty"`
}

type NarratorHandler struct {
	logger        *slog.Logger
	prompts       PromptEnqueuer
	minConfidence float64
}

// NewNarratorHandler creates the handler. prompts may be nil when no
// queue is configured; extraction still works, prompts just are not
// persisted.
func NewNarratorHandler(logger *slog.Logger, prompts PromptEnqueuer, minConfidence float64) *NarratorHandler {
	if minConfidence <= 0 {
		minConfidence = rollreq.DefaultMinConfidence
	}
	return &NarratorHandler{
		logger:        logger,
		prompts:       prompts,
		minConfidence: minConfidence,
	}
}

func (h *NarratorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req NarratorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "Text is required")
		return
	}

	requests := rollreq.ExtractWithThreshold(req.Text, h.minConfidence)
	report := protocol.Validate(req.Text)

	resp := NarratorResponse{
		Text:       rollreq.Truncate(req.Text),
		Requests:   requests,
		Validation: report,
	}
	if !report.IsValid {
		resp.Suggestion = protocol.SuggestCorrection(req.Text, report)
	}

	// The latest narrator message owns the pending prompts: stale
	// prompts from the previous turn are dropped, not merged.
	if h.prompts != nil && req.SessionID != uuid.Nil {
		if err := h.prompts.Clear(r.Context(), req.SessionID); err != nil {
			h.logger.Error("Failed to clear pending prompts", "error", err, "session_id", req.SessionID)
			writeError(w, http.StatusInternalServerError, "Failed to update pending prompts")
			return
		}
		if err := h.prompts.Enqueue(r.Context(), req.SessionID, requests...); err != nil {
			h.logger.Error("Failed to enqueue prompts", "error", err, "session_id", req.SessionID)
			writeError(w, http.StatusInternalServerError, "Failed to update pending prompts")
			return
		}
	}

	h.logger.Debug("Narrator message processed",
		"requests", len(requests),
		"valid", report.IsValid)

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Error encoding narrator response", "error", err)
	}
}
