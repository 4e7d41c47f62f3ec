package main

import (
	"context"
	"net/http"
	"time"

	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/httpx"

	"github.com/rs/zerolog"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// newRouter mounts the probes and the book routes.
func newRouter(books *book.HTTPHandler, db pinger, guard func(http.Handler) http.Handler) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	books.Register(router, guard)
	router.HandleFunc("/", httpx.NotFound)

	return router
}

// newHandler wraps router with the middleware stack. The returned stop
// function releases the rate limiter's cleanup goroutine.
func newHandler(cfg *config.Config, log zerolog.Logger, router http.Handler) (http.Handler, func()) {
	middlewares := []func(http.Handler) http.Handler{
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(log),
		httpx.RecoveryMiddleware(log),
		httpx.SecurityHeadersMiddleware(cfg.Server.EnableHSTS),
		httpx.CORSMiddleware(cfg.Server.CORSAllowedOrigins),
		httpx.RequestSizeLimitMiddleware(cfg.Server.MaxBodyBytes),
	}

	stop := func() {}
	if cfg.Server.RateLimitRPS > 0 {
		limiter := httpx.NewRateLimitMiddleware(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
		middlewares = append(middlewares, limiter.Middleware)
		stop = limiter.Stop
	}

	return httpx.Chain(router, middlewares...), stop
}
