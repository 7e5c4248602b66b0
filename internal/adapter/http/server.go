package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/air-quality-risk/internal/assess"
	"github.com/couchcryptid/air-quality-risk/internal/domain"
	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

const maxBodyBytes = 1 << 16

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Assessor runs risk assessments and exposes the tables it uses.
type Assessor interface {
	Assess(ctx context.Context, req assess.Request) (assess.Report, error)
	Breakpoints() domain.Classifier
}

// Server exposes the assessment API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	assessor   Assessor
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /v1/assessments, /v1/breakpoints,
// /healthz, /readyz, and /metrics routes. allowedOrigins feeds the CORS policy.
func NewServer(addr string, assessor Assessor, ready ReadinessChecker, allowedOrigins []string, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		assessor: assessor,
		logger:   logger,
	}

	mux.HandleFunc("POST /v1/assessments", s.handleAssessJSON)
	mux.HandleFunc("GET /v1/assessments", s.handleAssessQuery)
	mux.HandleFunc("GET /v1/breakpoints", s.handleBreakpoints)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(mux)

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError)),
	)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      recovery(corsHandler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// assessmentBody mirrors assess.Request with a nullable pm25 so a missing
// value can be told apart from zero.
type assessmentBody struct {
	Location string   `json:"location"`
	PM25     *float64 `json:"pm25"`
	PM10     *float64 `json:"pm10"`
}

func (s *Server) handleAssessJSON(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	var body assessmentBody
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if body.PM25 == nil {
		writeError(w, http.StatusBadRequest, "pm25 is required")
		return
	}

	s.assess(w, r, assess.Request{Location: body.Location, PM25: *body.PM25, PM10: body.PM10})
}

func (s *Server) handleAssessQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	pm25, err := parseReading(q, "pm25")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if pm25 == nil {
		writeError(w, http.StatusBadRequest, "pm25 is required")
		return
	}
	pm10, err := parseReading(q, "pm10")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.assess(w, r, assess.Request{Location: q.Get("location"), PM25: *pm25, PM10: pm10})
}

func (s *Server) assess(w http.ResponseWriter, r *http.Request, req assess.Request) {
	report, err := s.assessor.Assess(r.Context(), req)
	if err != nil {
		if errors.Is(err, assess.ErrInvalidReading) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.Error("assessment failed", "error", err)
		writeError(w, http.StatusInternalServerError, "assessment failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleBreakpoints(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.assessor.Breakpoints())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// parseReading returns nil when the parameter is absent. JSON cannot carry
// non-finite numbers, so they are rejected here as well.
func parseReading(q url.Values, key string) (*float64, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%s must be a finite number", key)
	}
	return &v, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
