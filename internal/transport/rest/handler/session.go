package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/goliatone/go-evalform/internal/service"
)

// SessionHandler handles respondent session endpoints
type SessionHandler struct {
	sessions *service.SessionService
	logger   *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *service.SessionService, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{sessions: sessions, logger: logger}
}

// AnswerRequest is the request body for recording an answer. An empty value
// clears the answer.
type AnswerRequest struct {
	Value *string `json:"value"`
}

// Start handles POST /v1/forms/{formId}/sessions
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.Start(r.Context(), mux.Vars(r)["formId"])
	writeView(w, h.logger, http.StatusCreated, view, err)
}

// Get handles GET /v1/sessions/{sessionId}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.Get(r.Context(), mux.Vars(r)["sessionId"])
	writeView(w, h.logger, http.StatusOK, view, err)
}

// Answer handles PUT /v1/sessions/{sessionId}/answers/{questionId}
func (h *SessionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	vars := mux.Vars(r)
	view, err := h.sessions.Answer(r.Context(), vars["sessionId"], vars["questionId"], *req.Value)
	writeView(w, h.logger, http.StatusOK, view, err)
}

// Next handles POST /v1/sessions/{sessionId}/next
func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.Next(r.Context(), mux.Vars(r)["sessionId"])
	writeView(w, h.logger, http.StatusOK, view, err)
}

// Previous handles POST /v1/sessions/{sessionId}/previous
func (h *SessionHandler) Previous(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.Previous(r.Context(), mux.Vars(r)["sessionId"])
	writeView(w, h.logger, http.StatusOK, view, err)
}

// Submit handles POST /v1/sessions/{sessionId}/submit
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.Submit(r.Context(), mux.Vars(r)["sessionId"])
	writeView(w, h.logger, http.StatusOK, view, err)
}
