package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/roll-engine/internal/services"
	"github.com/jwebster45206/roll-engine/pkg/participant"
	"github.com/jwebster45206/roll-engine/pkg/session"
)

// SessionHandler serves session CRUD and participant management:
//
//	POST   /v1/sessions
//	GET    /v1/sessions
//	GET    /v1/sessions/{id}
//	DELETE /v1/sessions/{id}
//	POST   /v1/sessions/{id}/participants
type SessionHandler struct {
	storage services.Storage
	logger  *slog.Logger
}

func NewSessionHandler(storage services.Storage, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		storage: storage,
		logger:  logger,
	}
}

type CreateSessionRequest struct {
	Name string `json:"name,omitempty"`
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/sessions")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodPost:
			h.handleCreate(w, r)
		case http.MethodGet:
			h.handleList(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	parts := strings.Split(path, "/")
	id, err := uuid.Parse(parts[0])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.handleGet(w, r, id)
		case http.MethodDelete:
			h.handleDelete(w, r, id)
		default:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if len(parts) == 2 && parts[1] == "participants" && r.Method == http.MethodPost {
		h.handleAddParticipant(w, r, id)
		return
	}

	writeError(w, http.StatusNotFound, "Not found")
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if r.Body != nil {
		// An empty body creates an unnamed session.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	s := session.New(req.Name)
	if err := h.storage.SaveSession(r.Context(), s); err != nil {
		h.logger.Error("Failed to save session", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	h.logger.Info("Session created", "session_id", s.ID, "name", s.Name)
	if err := writeJSON(w, http.StatusCreated, s); err != nil {
		h.logger.Error("Error encoding session response", "error", err)
	}
}

func (h *SessionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := h.storage.ListSessions(r.Context())
	if err != nil {
		h.logger.Error("Failed to list sessions", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	if err := writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": ids}); err != nil {
		h.logger.Error("Error encoding session list", "error", err)
	}
}

func (h *SessionHandler) handleGet(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	s, err := h.storage.LoadSession(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load session", "error", err, "session_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to load session")
		return
	}
	if s == nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	if err := writeJSON(w, http.StatusOK, s); err != nil {
		h.logger.Error("Error encoding session response", "error", err)
	}
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	s, err := h.storage.LoadSession(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load session", "error", err, "session_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	if s == nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	if err := h.storage.DeleteSession(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete session", "error", err, "session_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	h.logger.Info("Session deleted", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) handleAddParticipant(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	s, err := h.storage.LoadSession(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load session", "error", err, "session_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to load session")
		return
	}
	if s == nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	var p participant.Participant
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid participant body")
		return
	}
	if p.ID == "" {
		writeError(w, http.StatusBadRequest, "Participant ID is required")
		return
	}
	if p.Level <= 0 {
		p.Level = 1
	}
	if p.Stats == (participant.Stats5e{}) {
		p.Stats = participant.DefaultStats
	}

	s.AddParticipant(&p)
	if err := h.storage.SaveSession(r.Context(), s); err != nil {
		h.logger.Error("Failed to save session", "error", err, "session_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	h.logger.Info("Participant added", "session_id", id, "participant_id", p.ID)
	if err := writeJSON(w, http.StatusCreated, s); err != nil {
		h.logger.Error("Error encoding session response", "error", err)
	}
}
