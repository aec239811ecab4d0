package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"moneymate/internal/log"
	"moneymate/internal/middleware/ratelimit"
	"moneymate/internal/middleware/security"
	"moneymate/internal/middleware/trace"
	"moneymate/internal/services"
)

// Config holds the server settings.
type Config struct {
	Addr               string
	RateLimitPerMinute int
	Logger             *log.Logger
	// Ready backs /readyz; nil means always ready.
	Ready func(ctx context.Context) error
}

// Server is the MoneyMate REST API server.
type Server struct {
	http.Server

	svc      *services.TransactionService
	logger   *log.Logger
	ready    func(ctx context.Context) error
	limiter  *ratelimit.Limiter
	detector *security.Detector

	shutdownOnce sync.Once
}

// NewServer wires the routes and the middleware chain.
func NewServer(cfg Config, svc *services.TransactionService) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	rl := ratelimit.DefaultConfig()
	if cfg.RateLimitPerMinute > 0 {
		rl.RequestsPerMinute = cfg.RateLimitPerMinute
	}

	s := &Server{
		svc:      svc,
		logger:   logger,
		ready:    cfg.Ready,
		limiter:  ratelimit.NewLimiter(rl),
		detector: security.NewDetector(),
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("Not found").Write(w)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		MethodNotAllowedError().Write(w)
	})
	s.routes(r)

	var h http.Handler = r
	h = s.limiter.Middleware(s.detector.ExtractClientIP, isSafeMethod, rateLimited)(h)
	h = s.detector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = trace.NewMiddleware(logger, s.detector.ExtractClientIP).Middleware(h)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes(r *mux.Router) {
	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet, http.MethodHead)

	r.HandleFunc("/transactions", s.handleListTransactions).Methods(http.MethodGet)
	r.HandleFunc("/transactions", s.handleCreateTransaction).Methods(http.MethodPost)
	r.HandleFunc("/transactions/{id}", s.handleGetTransaction).Methods(http.MethodGet)
	r.HandleFunc("/transactions/{id}", s.handleUpdateTransaction).Methods(http.MethodPut, http.MethodPatch)
	r.HandleFunc("/transactions/{id}", s.handleDeleteTransaction).Methods(http.MethodDelete)

	r.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)
	r.HandleFunc("/summary/categories", s.handleSummaryCategories).Methods(http.MethodGet)
	r.HandleFunc("/summary/months", s.handleSummaryMonths).Methods(http.MethodGet)
	r.HandleFunc("/reports", s.handleReport).Methods(http.MethodGet)

	r.HandleFunc("/export/sheets", s.handleExportSheets).Methods(http.MethodPost)
	r.HandleFunc("/export/{format:csv|json|xlsx|pdf}", s.handleExport).Methods(http.MethodGet)
	r.HandleFunc("/backup/import", s.handleImport).Methods(http.MethodPost)
}

func isSafeMethod(r *http.Request) bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func rateLimited(w http.ResponseWriter, r *http.Request, retry time.Duration) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldComponent, log.ComponentRateLimit,
		log.FieldPath, r.URL.Path)
	TooManyRequestsError(ratelimit.RetryAfterSeconds(retry)).Write(w)
}

// Shutdown gracefully shuts down the server and stops the limiter cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]string{"status": "ok"}).Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			ErrorResponse(http.StatusServiceUnavailable, "Service not ready").Write(w)
			return
		}
	}
	NewResponse().JSON(map[string]string{"status": "ready"}).Write(w)
}

// serverError logs err and writes a generic 500.
func serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	log.FromContext(r.Context()).ErrorContext(r.Context(), msg, log.FieldError, err)
	InternalServerError().Write(w)
}
