// Package api provides the HTTP API for the reading tracker.
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

	"github.com/nightstandapp/nightstand-server/internal/ratelimit"
	"github.com/nightstandapp/nightstand-server/internal/service"
	"github.com/nightstandapp/nightstand-server/internal/sse"
)

// Version is reported in the OpenAPI document.
const Version = "1.0.0"

// EventsPath is where the change event stream is served.
const EventsPath = "/api/v1/events"

// Config holds the HTTP layer settings.
type Config struct {
	AllowedOrigins []string
	// WriteRatePerMinute limits mutating requests per client address.
	WriteRatePerMinute int
	WriteBurst         int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	library    *service.LibraryService
	sseManager *sse.Manager
	sseHandler *sse.Handler
	limiter    *ratelimit.KeyedRateLimiter
	router     *chi.Mux
	api        huma.API
	logger     *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(library *service.LibraryService, sseManager *sse.Manager, cfg Config, logger *slog.Logger) *Server {
	if cfg.WriteRatePerMinute <= 0 {
		cfg.WriteRatePerMinute = 120
	}
	if cfg.WriteBurst <= 0 {
		cfg.WriteBurst = 30
	}

	s := &Server{
		library:    library,
		sseManager: sseManager,
		sseHandler: sse.NewHandler(sseManager, logger),
		limiter:    ratelimit.New(ratelimit.PerInterval(cfg.WriteRatePerMinute, time.Minute), cfg.WriteBurst),
		router:     chi.NewRouter(),
		logger:     logger,
	}

	s.setupMiddleware(cfg)

	humaConfig := huma.DefaultConfig("Nightstand API", Version)
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, e.g. for dumping the OpenAPI document.
func (s *Server) API() huma.API {
	return s.api
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.limiter.Stop()
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(cfg Config) {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
		MaxAge:         300,
	}))
	s.router.Use(RateLimitMiddleware(s.limiter, s.logger))
}

// setupRoutes registers every operation.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerProfileRoutes()
	s.registerBookRoutes()
	s.registerSkinRoutes()
	s.registerLibraryRoutes()
	s.registerCoverRoutes()

	s.router.Get(EventsPath, s.sseHandler.ServeHTTP)
}
