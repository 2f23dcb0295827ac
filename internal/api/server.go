// Package api provides the HTTP API server and handlers for the PaperDesk application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/paperdeskapp/paperdesk-server/internal/config"
	"github.com/paperdeskapp/paperdesk-server/internal/service"
)

// Version is reported in the OpenAPI document and the health endpoint.
const Version = "1.0.0"

// Server holds dependencies for HTTP handlers.
type Server struct {
	workspace      *service.Workspace
	router         *chi.Mux
	api            huma.API
	logger         *slog.Logger
	maxUploadBytes int64
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(workspace *service.Workspace, cfg *config.Config, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		workspace:      workspace,
		router:         router,
		logger:         logger,
		maxUploadBytes: cfg.Workspace.MaxUploadBytes,
	}

	s.setupMiddleware(cfg.Server.AllowedOrigins)

	humaConfig := huma.DefaultConfig(cfg.Server.Name, Version)
	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerPaperRoutes()
	s.registerViewportRoutes()
	s.registerHighlightRoutes()
	s.registerSearchRoutes()
	s.registerDocumentRoutes()
	s.registerExportRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack. The browser client runs on
// a different origin during development, so CORS is always on.
func (s *Server) setupMiddleware(allowedOrigins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// withExtendedTimeout wraps a handler to extend read/write timeouts for large uploads.
// This MUST be called before any body reading occurs.
func withExtendedTimeout(next http.HandlerFunc, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := http.NewResponseController(w)
		if err := rc.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			// Log but continue - some servers may not support this
			_ = err
		}
		if err := rc.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			_ = err
		}
		next(w, r)
	}
}
