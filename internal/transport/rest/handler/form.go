package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/goliatone/go-evalform/internal/service"
	"github.com/goliatone/go-evalform/pkg/form"
)

// FormHandler handles questionnaire administration endpoints
type FormHandler struct {
	forms  *service.FormService
	logger *zap.Logger
}

// NewFormHandler creates a new form handler
func NewFormHandler(forms *service.FormService, logger *zap.Logger) *FormHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormHandler{forms: forms, logger: logger}
}

// List handles GET /v1/forms
func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	defs, err := h.forms.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if defs == nil {
		defs = []form.Definition{}
	}
	writeJSON(w, http.StatusOK, defs)
}

// Create handles POST /v1/forms
func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	var def form.Definition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.forms.Create(r.Context(), def)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /v1/forms/{formId}
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	def, err := h.forms.Get(r.Context(), mux.Vars(r)["formId"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// Update handles PUT /v1/forms/{formId}
func (h *FormHandler) Update(w http.ResponseWriter, r *http.Request) {
	var def form.Definition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.forms.Update(r.Context(), mux.Vars(r)["formId"], def)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /v1/forms/{formId}
func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.forms.Delete(r.Context(), mux.Vars(r)["formId"]); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Submissions handles GET /v1/forms/{formId}/submissions
func (h *FormHandler) Submissions(w http.ResponseWriter, r *http.Request) {
	list, err := h.forms.Submissions(r.Context(), mux.Vars(r)["formId"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
