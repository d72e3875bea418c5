package http

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"budget/internal/log"
	"budget/internal/middleware/cors"
	"budget/internal/middleware/ratelimit"
	"budget/internal/middleware/security"
	"budget/internal/middleware/trace"
	"budget/internal/services"
)

// Pinger reports whether storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures the middleware around the API.
type Options struct {
	AllowedOrigin   string
	RateLimitPerMin int
}

type Server struct {
	http.Server
	goals        *services.GoalService
	transactions *services.TransactionService
	pinger       Pinger
	logger       *log.Logger
	started      time.Time

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
// pinger may be nil, in which case /readyz always succeeds.
func NewServer(addr string, goals *services.GoalService, transactions *services.TransactionService, pinger Pinger, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	detector := security.NewDetector()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		goals:            goals,
		transactions:     transactions,
		pinger:           pinger,
		logger:           logger.WithComponent(log.ComponentHTTP),
		started:          time.Now(),
		rateLimiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMin}),
		securityDetector: detector,
		traceMiddleware:  trace.NewMiddleware(logger, detector.ExtractClientIP),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/goals", s.handleListGoals)
	mux.HandleFunc("POST /api/goals", s.handleCreateGoal)
	mux.HandleFunc("POST /api/goals/{id}/contribute", s.handleContribute)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/summary", s.handleSummary)
	mux.HandleFunc("GET /api/transactions/summary/category", s.handleSummaryByCategory)
	mux.HandleFunc("GET /api/transactions/recent", s.handleRecentTransactions)

	onLimit := func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, detector.ExtractClientIP(r),
			log.FieldPath, r.URL.Path)
		ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded").Write(w)
	}

	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(detector.ExtractClientIP, onLimit)(handler)
	handler = detector.Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = cors.Middleware(cors.DefaultConfig(opts.AllowedOrigin))(handler)
	handler = recoverPanics(handler)
	handler = s.traceMiddleware.Middleware(handler)
	s.Handler = handler

	return s
}

// recoverPanics turns a handler panic into a 500 JSON response.
func recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.LogError(r.Context(), "Panic recovered", fmt.Errorf("%v", rec), log.ErrorTypeInternal, r.Method+" "+r.URL.Path,
					log.LogFields{"stack": string(debug.Stack())})
				InternalServerError("internal server error").Write(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.logger.InfoContext(ctx, "HTTP server shutting down", log.FieldOperation, log.OpShutdown)
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
