package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/goliatone/go-evalform/internal/service"
	"github.com/goliatone/go-evalform/pkg/form"
	"github.com/goliatone/go-evalform/pkg/wizard"
)

// PageRenderer renders a session view as a browser page.
type PageRenderer interface {
	Render(ctx context.Context, out io.Writer, view wizard.View) error
	ContentType() string
}

// PageHandler serves the student-facing HTML form
type PageHandler struct {
	sessions *service.SessionService
	renderer PageRenderer
	logger   *zap.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(sessions *service.SessionService, renderer PageRenderer, logger *zap.Logger) *PageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageHandler{sessions: sessions, renderer: renderer, logger: logger}
}

// Show handles GET /v1/sessions/{sessionId}/page
func (h *PageHandler) Show(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.Get(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		http.Error(w, err.Error(), StatusFor(err))
		return
	}
	h.render(w, r, http.StatusOK, view)
}

// Step handles POST /v1/sessions/{sessionId}/page. Posted fields other than
// "action" are answers for the visible section. A successful step redirects
// back to the page; a blocked one re-renders it with the notice.
func (h *PageHandler) Step(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	action, err := service.ParseAction(r.PostForm.Get(form.ReservedQuestionID))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	answers := form.AnswerSet{}
	for key := range r.PostForm {
		if key == form.ReservedQuestionID {
			continue
		}
		answers[key] = r.PostForm.Get(key)
	}

	view, err := h.sessions.Step(r.Context(), mux.Vars(r)["sessionId"], answers, action)
	if err == nil {
		http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
		return
	}
	status := StatusFor(err)
	if view.SessionID == "" || status >= http.StatusInternalServerError {
		if status >= http.StatusInternalServerError {
			h.logger.Error("page step failed", zap.Int("status", status), zap.Error(err))
		}
		http.Error(w, err.Error(), status)
		return
	}
	h.render(w, r, status, view)
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, view wizard.View) {
	var buf bytes.Buffer
	if err := h.renderer.Render(r.Context(), &buf, view); err != nil {
		h.logger.Error("render page", zap.String("session_id", view.SessionID), zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", h.renderer.ContentType())
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
