package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/call-scorer/internal/config"
	"github.com/jonathan/call-scorer/internal/db"
	"github.com/jonathan/call-scorer/internal/rubric"
	"github.com/jonathan/call-scorer/internal/server/middleware"
	"github.com/jonathan/call-scorer/internal/server/ratelimit"
	"github.com/jonathan/call-scorer/internal/transcription"
	"github.com/jonathan/call-scorer/internal/types"
)

const (
	// maxJSONBody caps request bodies for JSON endpoints
	maxJSONBody = 1 << 20
	// DefaultMaxUpload caps audio uploads
	DefaultMaxUpload = 100 << 20
	// requestIDHeader carries the per-request ID on responses
	requestIDHeader = "X-Request-ID"
)

// RubricStore persists named rubrics
type RubricStore interface {
	rubric.Store
	SaveRubric(ctx context.Context, r *types.Rubric) error
	ListRubrics(ctx context.Context) ([]db.RubricSummary, error)
}

// Config holds server configuration
type Config struct {
	Port int
	// JWT enables bearer auth on scoring and rubric endpoints when non-nil
	JWT       *config.JWTConfig
	Wait      transcription.WaitOptions
	RateLimit *ratelimit.Config
	MaxUpload int64
}

// Deps are the collaborators the handlers call into. Nil fields disable the endpoints that need them.
type Deps struct {
	Transcriber   transcription.Service
	Store         RubricStore
	DefaultRubric rubric.Source
	Logger        logrus.FieldLogger
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	logger      logrus.FieldLogger
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	validator   *validator.Validate
	transcriber transcription.Service
	store       RubricStore
	rubrics     rubric.Source
	wait        transcription.WaitOptions
	maxUpload   int64
}

// New creates a new server instance
func New(cfg Config, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if cfg.MaxUpload <= 0 {
		cfg.MaxUpload = DefaultMaxUpload
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.LoadConfig()
	}

	s := &Server{
		logger:      deps.Logger,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		validator:   validator.New(),
		transcriber: deps.Transcriber,
		store:       deps.Store,
		rubrics:     deps.DefaultRubric,
		wait:        cfg.Wait,
		maxUpload:   cfg.MaxUpload,
	}
	if cfg.JWT != nil {
		s.jwtService = NewJWTService(cfg.JWT)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Scoring
	mux.Handle("POST /analyses", s.protect(s.handleAnalyze))
	mux.Handle("POST /speakers/classify", s.protect(s.handleClassifySpeakers))
	mux.Handle("POST /transcriptions", s.protect(s.handleTranscribe))

	// Rubrics
	mux.HandleFunc("GET /rubrics", s.handleListRubrics)
	mux.HandleFunc("GET /rubrics/default", s.handleDefaultRubric)
	mux.HandleFunc("GET /rubrics/{name}", s.handleGetRubric)
	mux.Handle("PUT /rubrics/{name}", s.protect(s.handlePutRubric))
	mux.HandleFunc("POST /rubrics/validate", s.handleValidateRubric)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.withRecovery(mux)))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // transcription waits up to MaxAttempts*Interval
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.httpServer.Addr).Info("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	s.logger.Info("server stopped")
	return nil
}

// Close releases background resources
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// protect wraps a handler with bearer auth when JWT is configured
func (s *Server) protect(h http.HandlerFunc) http.Handler {
	if s.jwtService == nil {
		return h
	}
	return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(h)
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging assigns a request ID and logs each completed request
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set(requestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		entry := s.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).String(),
			"remote":     s.extractClientID(r),
		})
		if rec.status >= http.StatusInternalServerError {
			entry.Warn("request failed")
		} else {
			entry.Info("request completed")
		}
	})
}

// withRecovery turns handler panics into 500s and reports them to Sentry
func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				hub := sentry.CurrentHub().Clone()
				hub.Scope().SetRequest(r)
				hub.RecoverWithContext(r.Context(), rec)
				s.logger.WithField("panic", rec).Error("handler panicked")
				s.errorResponse(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"transcription": s.transcriber != nil,
		"rubricStore":   s.store != nil,
		"auth":          s.jwtService != nil,
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("failed to encode JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errorFrom maps err to a status and writes it. Server-side failures are reported to Sentry.
func (s *Server) errorFrom(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		captureError(r, err)
	}
	s.errorResponse(w, status, err.Error())
}

// captureError sends an error to Sentry with request context
func captureError(r *http.Request, err error) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetRequest(r)
		sentry.CaptureException(err)
	})
}

// extractClientID extracts the client identifier (IP address) from the request.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.logger.WithFields(logrus.Fields{
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}).Warn("rate limit exceeded")

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
