package api

import (
	"net/http"
	"time"

	agentapi "github.com/quorix/kb-backend/internal/api/agent"
	assignmentapi "github.com/quorix/kb-backend/internal/api/assignment"
	"github.com/quorix/kb-backend/internal/api/docs"
	knowledgeapi "github.com/quorix/kb-backend/internal/api/knowledge"
	"github.com/quorix/kb-backend/internal/api/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	agentHandler *agentapi.Handler,
	knowledgeHandler *knowledgeapi.Handler,
	assignmentHandler *assignmentapi.Handler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)                 // Recover from panics
	r.Use(chimiddleware.RequestID)                 // Add request ID
	r.Use(middleware.Logger(logger))               // Log requests
	r.Use(middleware.CORS)                         // Handle CORS
	r.Use(chimiddleware.Timeout(60 * time.Second)) // Default timeout

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Register routes
	agentapi.RegisterRoutes(r, agentHandler)
	knowledgeapi.RegisterRoutes(r, knowledgeHandler)
	assignmentapi.RegisterRoutes(r, assignmentHandler)

	return r
}
