// Package http serves the JSON API over the application state store.
package http

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"fatture/internal/adapters"
	"fatture/internal/cache"
	"fatture/internal/middleware/ratelimit"
	"fatture/internal/middleware/security"
	"fatture/internal/middleware/trace"
	"fatture/internal/store"
)

// Server wraps http.Server with the API's state store, caches and middleware.
type Server struct {
	http.Server

	store       *store.Store
	versionPath string
	startedAt   time.Time

	limiter      *ratelimit.Limiter
	tracer       *trace.Middleware
	cacheManager *cache.Manager

	// Account summaries are derived from two collections on every
	// request, so they are worth caching for a short window.
	summaryCache *cache.LRU[[]AccountSummary]

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, st *store.Store, versionPath string) *Server {
	mux := http.NewServeMux()

	s := &Server{
		store:        st,
		versionPath:  versionPath,
		startedAt:    time.Now(),
		limiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		tracer:       trace.NewMiddleware(extractClientIP),
		cacheManager: cache.NewManager(),
		summaryCache: cache.NewLRU[[]AccountSummary](8, 1*time.Minute),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/version", s.handleVersion)

	registerResource(mux, string(store.Customers), adapters.Customers(st))
	registerResource(mux, string(store.Invoices), adapters.Invoices(st))
	registerResource(mux, string(store.Categories), adapters.Categories(st))
	registerResource(mux, string(store.Items), adapters.Items(st))
	registerResource(mux, string(store.Accounts), adapters.Accounts(st))
	registerResource(mux, string(store.Expenses), adapters.Expenses(st))
	registerResource(mux, string(store.Payments), adapters.Payments(st))
	registerResource(mux, string(store.Receipts), adapters.Receipts(st))

	mux.HandleFunc("GET /api/invoices/{id}/balance", s.handleInvoiceBalance)
	mux.HandleFunc("GET /api/summary/accounts", s.handleAccountSummary)

	handler := security.Middleware(security.DefaultHeadersConfig())(mux)
	handler = s.limiter.Middleware(extractClientIP)(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown stops the cleanup goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// extractClientIP prefers the first X-Forwarded-For hop over RemoteAddr.
func extractClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
