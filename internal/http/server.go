// Package http exposes the REST surface of the transaction service:
// token issuance, transaction CRUD and the dashboard aggregation endpoints.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/yashx007/Finance-App/internal/auth"
	"github.com/yashx007/Finance-App/internal/cache"
	"github.com/yashx007/Finance-App/internal/core"
	"github.com/yashx007/Finance-App/internal/services"
	"github.com/yashx007/Finance-App/internal/store"
)

type Server struct {
	http.Server
	transactions *services.TransactionService
	users        store.UserStore
	rollups      store.RollupStore
	verifier     *auth.Verifier
	rateLimiter  *rateLimiter

	// Dashboard responses cached per normalized filter.
	monthlyCache *cache.LRUCache[[]core.MonthlyPoint]
	summaryCache *cache.LRUCache[core.Summary]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
// rollups may be nil when no worker backend is configured; the rollups
// endpoint then reports 503.
func NewServer(addr string, txs *services.TransactionService, users store.UserStore, rollups store.RollupStore, verifier *auth.Verifier) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		transactions: txs,
		users:        users,
		rollups:      rollups,
		verifier:     verifier,
		rateLimiter:  newRateLimiter(),
		monthlyCache: cache.NewLRUCache[[]core.MonthlyPoint](100, 5*time.Minute),
		summaryCache: cache.NewLRUCache[core.Summary](100, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.monthlyCache)
	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/auth/signup", s.withSecurityHeaders(s.handleSignup))
	mux.HandleFunc("POST /api/auth/login", s.withSecurityHeaders(s.handleLogin))

	mux.HandleFunc("GET /api/transactions", s.withSecurityHeaders(s.withAuth(s.handleListTransactions)))
	mux.HandleFunc("POST /api/transactions", s.withSecurityHeaders(s.withAuth(s.handleCreateTransaction)))
	mux.HandleFunc("GET /api/transactions/{id}", s.withSecurityHeaders(s.withAuth(s.handleGetTransaction)))
	mux.HandleFunc("PUT /api/transactions/{id}", s.withSecurityHeaders(s.withAuth(s.handleUpdateTransaction)))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withSecurityHeaders(s.withAuth(s.handleDeleteTransaction)))

	mux.HandleFunc("GET /api/dashboard/monthly", s.withSecurityHeaders(s.withAuth(s.handleMonthlySeries)))
	mux.HandleFunc("GET /api/dashboard/summary", s.withSecurityHeaders(s.withAuth(s.handleSummary)))
	mux.HandleFunc("GET /api/dashboard/rollups", s.withSecurityHeaders(s.withAuth(s.handleRollups)))

	return s
}

// Shutdown stops the cleanup goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ip := clientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", ip,
			"user_agent", r.Header.Get("User-Agent"))

		// Rate limit writes only; dashboard reads are cache-backed.
		if isMutating(r.Method) && !s.rateLimiter.allow(ip) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", ip, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded, try again later"})
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", ip)
	}
}

// withAuth rejects requests without a verifiable bearer token. A missing
// credential and a bad credential are distinct failures: 403 for the former,
// 401 for the latter.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.ExtractBearer(r.Header.Get("Authorization"))
		if errors.Is(err, auth.ErrNoToken) {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "access denied, no token provided"})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			return
		}
		subject, err := s.verifier.Verify(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			return
		}
		next(w, r.WithContext(auth.ContextWithSubject(r.Context(), subject)))
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]string)

	// A cheap read proves the backing store answers.
	if _, err := s.transactions.List(ctx, core.Filter{SortBy: core.DefaultSortField, Order: core.OrderDesc}); err != nil {
		checks["store"] = "failed: " + err.Error()
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}

	if s.rollups == nil {
		checks["rollups"] = "not_configured"
	} else if _, err := s.rollups.Rollups(ctx); err != nil {
		checks["rollups"] = "failed: " + err.Error()
	} else {
		checks["rollups"] = "ok"
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// invalidateDashboards drops every cached dashboard response. Mutations can
// shift any filtered aggregate, so the whole keyspace goes.
func (s *Server) invalidateDashboards() {
	s.monthlyCache.Purge()
	s.summaryCache.Purge()
}

var errRollupsUnavailable = errors.New("rollups not available")
