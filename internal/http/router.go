package http

import (
	"context"
	"net/http"
	"time"

	"bookshelf/internal/config"
	"bookshelf/internal/httpx"
	"bookshelf/internal/ingest"
	"bookshelf/internal/usecase"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type RouterConfig struct {
	Library *usecase.Library
	// Ingest is optional; /v1/ingest is not served without it.
	Ingest *ingest.HTTPHandler
	// Ready reports whether the storage backend is reachable. Nil means
	// always ready.
	Ready  func(ctx context.Context) error
	Logger zerolog.Logger
	HTTP   config.HTTP
}

// Router is the API handler. Stop releases the rate limiter's background
// cleanup.
type Router struct {
	http.Handler
	rateLimit *httpx.RateLimitMiddleware
}

func (rt *Router) Stop() {
	rt.rateLimit.Stop()
}

func NewRouter(cfg RouterConfig) *Router {
	mux := http.NewServeMux()
	books := NewBookHandler(cfg.Library, cfg.Logger)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := cfg.Ready(ctx); err != nil {
				http.Error(w, "storage not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/books", books.List)
	mux.HandleFunc("POST /v1/books", books.Create)
	mux.HandleFunc("GET /v1/books/search", books.Search)
	mux.HandleFunc("PUT /v1/books/{position}", books.Update)
	mux.HandleFunc("DELETE /v1/books/{position}", books.Delete)

	if cfg.Ingest != nil {
		mux.HandleFunc("POST /v1/ingest", cfg.Ingest.Ingest)
	}

	rl := httpx.NewRateLimitMiddleware(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
	routeOf := func(r *http.Request) string {
		_, pattern := mux.Handler(r)
		return pattern
	}

	handler := httpx.Chain(mux,
		httpx.RequestIDMiddleware,
		httpx.RecoveryMiddleware(cfg.Logger),
		httpx.AccessLogMiddleware(cfg.Logger),
		httpx.MetricsMiddleware(routeOf),
		httpx.SecurityHeadersMiddleware(cfg.HTTP.EnableHSTS),
		httpx.CORSMiddleware(cfg.HTTP.CORSOrigins),
		httpx.RequestSizeLimitMiddleware(cfg.HTTP.MaxBodyBytes),
		rl.Middleware,
	)

	return &Router{Handler: handler, rateLimit: rl}
}
