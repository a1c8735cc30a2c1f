// Package api - Thin JSON layer over the pricing and modification engines.
// The API is ONLY responsible for decoding, validation at the boundary, and
// serialization. It never performs pricing math itself.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"glazeworks/core/diagnosis"
	"glazeworks/core/modification"
	"glazeworks/core/pricing"
	"glazeworks/core/quote"
	"glazeworks/internal/errors"
)

// Options configures a Server
type Options struct {
	Version string

	Catalog  pricing.Catalog
	Presets  *modification.Catalogue
	Analyzer diagnosis.Analyzer

	// StrictWetSize rejects wet requests without a size instead of pricing them as dry
	StrictWetSize bool

	MaxUploadBytes int64
	RequestTimeout time.Duration

	Logger *zap.Logger
}

// Server is the API server
type Server struct {
	router  chi.Router
	handler *Handler
	version string
	logger  *zap.Logger
	timeout time.Duration
}

// NewServer creates a new API server
func NewServer(opts Options) *Server {
	if opts.Catalog.Fingerprint() == "" {
		opts.Catalog = pricing.DefaultCatalog()
	}
	if opts.Presets == nil {
		opts.Presets = modification.DefaultCatalogue()
	}
	if opts.Analyzer == nil {
		opts.Analyzer = diagnosis.Fallback{}
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 15 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Server{
		router: chi.NewRouter(),
		handler: &Handler{
			composer:      quote.NewComposer(opts.Catalog),
			presets:       opts.Presets,
			analyzer:      opts.Analyzer,
			strictWetSize: opts.StrictWetSize,
			maxUpload:     opts.MaxUploadBytes,
			logger:        opts.Logger,
		},
		version: opts.Version,
		logger:  opts.Logger,
		timeout: opts.RequestTimeout,
	}

	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Post("/price", s.handler.handlePrice)
	r.Post("/estimate", s.handler.handleEstimate)
	r.Post("/cart/totals", s.handler.handleTotals)
	r.Post("/diagnose", s.handler.handleDiagnose)
	r.Post("/modifications", s.handler.handleModification)
	r.Get("/modifications/presets", s.handler.handlePresets)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "glazeworks",
		"api_version": "v1",
		"rates":       s.handler.composer.Catalog().Fingerprint(),
	}, http.StatusOK)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, code, message string, status int) {
	writeJSON(w, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	}, status)
}

// writeDomainError maps a domain error type onto an HTTP status.
func writeDomainError(w http.ResponseWriter, err error) {
	t := errors.TypeOf(err)
	status := http.StatusInternalServerError
	switch t {
	case errors.TypeInput, errors.TypeParsing:
		status = http.StatusBadRequest
	case errors.TypeNotFound:
		status = http.StatusNotFound
	}
	writeError(w, string(t), err.Error(), status)
}
