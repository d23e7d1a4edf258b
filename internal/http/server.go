// Package http exposes the analytics engine as a JSON API. Owners are
// identified by the X-Owner-ID request header; every route except the
// health probes requires it.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/akashreddykandula/spendWise/internal/log"
	"github.com/akashreddykandula/spendWise/internal/middleware/ratelimit"
	"github.com/akashreddykandula/spendWise/internal/middleware/security"
	"github.com/akashreddykandula/spendWise/internal/middleware/trace"
	"github.com/akashreddykandula/spendWise/internal/services"
)

type Server struct {
	http.Server

	service    *services.AnalyticsService
	structured *log.StructuredLogger
	limiter    *ratelimit.Limiter

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, service *services.AnalyticsService, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		service:    service,
		structured: log.NewStructuredLogger(logger.WithComponent(log.ComponentHTTP)),
		limiter:    ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/analytics/overview", s.handleOverview)
	mux.HandleFunc("GET /api/analytics/advanced", s.handleAdvanced)
	mux.HandleFunc("GET /api/analytics/trend", s.handleTrend)

	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/budget", s.handleGetBudget)
	mux.HandleFunc("PUT /api/budget", s.handlePutBudget)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(clientIP)

	// Writes are rate limited per client; reads pass through.
	limited := s.limiter.Middleware(clientIP, nil)
	var handler http.Handler = mux
	handler = onWrites(limited)(handler)
	handler = tracer.Middleware(handler)
	handler = headers.Middleware(handler)
	handler = log.Middleware(logger)(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// onWrites applies mw to mutating requests only.
func onWrites(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		wrapped := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodDelete:
				wrapped.ServeHTTP(w, r)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// Shutdown stops the rate limiter and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
