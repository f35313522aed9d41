package rest

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/goliatone/go-evalform/internal/service"
	"github.com/goliatone/go-evalform/internal/transport/rest/handler"
	"github.com/goliatone/go-evalform/internal/transport/rest/middleware"
	"github.com/goliatone/go-evalform/pkg/renderers/html"
)

// Container holds all dependencies for the router
type Container struct {
	FormService    *service.FormService
	SessionService *service.SessionService
	Renderer       handler.PageRenderer
	APIDoc         *openapi3.T
	Logger         *zap.Logger
	CORSOrigins    []string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) *mux.Router {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := mux.NewRouter()

	formHandler := handler.NewFormHandler(c.FormService, logger)
	sessionHandler := handler.NewSessionHandler(c.SessionService, logger)

	r.Use(middleware.CORS(c.CORSOrigins))
	r.Use(middleware.Logging(logger))

	r.HandleFunc("/health", handler.Health).Methods("GET")
	r.HandleFunc("/openapi.json", handler.OpenAPI(c.APIDoc)).Methods("GET")
	r.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.FS(html.AssetsFS()))),
	).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()

	// Administration
	v1.HandleFunc("/forms", formHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/forms", formHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/forms/{formId}", formHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/forms/{formId}", formHandler.Update).Methods("PUT", "OPTIONS")
	v1.HandleFunc("/forms/{formId}", formHandler.Delete).Methods("DELETE", "OPTIONS")
	v1.HandleFunc("/forms/{formId}/submissions", formHandler.Submissions).Methods("GET", "OPTIONS")

	// Respondent sessions
	v1.HandleFunc("/forms/{formId}/sessions", sessionHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{sessionId}", sessionHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sessions/{sessionId}/answers/{questionId}", sessionHandler.Answer).Methods("PUT", "OPTIONS")
	v1.HandleFunc("/sessions/{sessionId}/next", sessionHandler.Next).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{sessionId}/previous", sessionHandler.Previous).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{sessionId}/submit", sessionHandler.Submit).Methods("POST", "OPTIONS")

	if c.Renderer != nil {
		pageHandler := handler.NewPageHandler(c.SessionService, c.Renderer, logger)
		v1.HandleFunc("/sessions/{sessionId}/page", pageHandler.Show).Methods("GET")
		v1.HandleFunc("/sessions/{sessionId}/page", pageHandler.Step).Methods("POST")
	}

	return r
}
