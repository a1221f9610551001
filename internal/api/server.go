// Package api provides the HTTP API server and handlers for the Hondana application.
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

	"github.com/hondana-app/hondana-server/internal/auth"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	services    *Services
	verifier    *auth.Verifier // nil when bearer auth is disabled
	router      *chi.Mux
	api         huma.API
	rateLimiter *RateLimiter
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// A nil verifier disables bearer auth: every request is anonymous and
// endpoints that require a viewer respond 401.
func NewServer(services *Services, verifier *auth.Verifier, logger *slog.Logger) *Server {
	s := &Server{
		services:    services,
		verifier:    verifier,
		router:      chi.NewRouter(),
		rateLimiter: NewRateLimiter(300, time.Minute, 100),
		logger:      logger,
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Hondana API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerSearchRoutes()
	s.registerBookRoutes()
	s.registerShelfRoutes()
	s.registerReviewRoutes()
	s.registerSocialRoutes()
	s.registerUserRoutes()
	s.registerFeedRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(RateLimitMiddleware(s.rateLimiter, s.logger))
}
