package handler

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

// Health handles GET /health
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// OpenAPI serves the API document as JSON.
func OpenAPI(doc *openapi3.T) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if doc == nil {
			writeError(w, http.StatusNotFound, "api document not configured")
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}
