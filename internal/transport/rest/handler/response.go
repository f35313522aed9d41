package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-evalform/internal/service"
	"github.com/goliatone/go-evalform/pkg/wizard"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// StatusFor maps service and wizard errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, service.ErrFormNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidForm),
		errors.Is(err, service.ErrUnknownAction),
		errors.Is(err, wizard.ErrUnknownQuestion),
		errors.Is(err, wizard.ErrInvalidRating):
		return http.StatusBadRequest
	case errors.Is(err, wizard.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrFormExists),
		errors.Is(err, wizard.ErrSubmitted),
		errors.Is(err, wizard.ErrSubmitInProgress),
		errors.Is(err, wizard.ErrFirstSection),
		errors.Is(err, wizard.ErrLastSection),
		errors.Is(err, wizard.ErrNotLastSection),
		errors.Is(err, wizard.ErrFormMismatch):
		return http.StatusConflict
	case errors.Is(err, wizard.ErrSinkFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	writeError(w, status, err.Error())
}

// validationFailure is the 422 body: the error, the missing question ids and
// the view with the notice raised.
type validationFailure struct {
	Error   string      `json:"error"`
	Missing []string    `json:"missing"`
	View    wizard.View `json:"view"`
}

func writeView(w http.ResponseWriter, logger *zap.Logger, status int, view wizard.View, err error) {
	if err == nil {
		writeJSON(w, status, view)
		return
	}
	var vErr *wizard.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusUnprocessableEntity, validationFailure{
			Error:   err.Error(),
			Missing: vErr.Missing,
			View:    view,
		})
		return
	}
	writeServiceError(w, logger, err)
}
