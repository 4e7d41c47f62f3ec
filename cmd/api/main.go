package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/database"
	"bookshelf/internal/httpx"
	"bookshelf/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet: fall back to a default one for the config error.
		log := logger.New("error", true)
		log.Fatal().Err(err).Msg("cannot load config")
	}

	log := logger.New(cfg.Log.Level, cfg.IsLocal())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.Database, log, cfg.IsLocal())
	if err != nil {
		log.Fatal().Err(err).Str("dsn", database.RedactDSN(cfg.Database.DSN)).Msg("cannot open database")
	}
	defer db.Close()

	bookRepository := book.NewPostgresRepo(db.Pool, cfg.Database.QueryTimeout)
	bookService := book.NewService(bookRepository)
	bookHandler := book.NewHTTPHandler(bookService, log)

	var guard func(http.Handler) http.Handler
	if cfg.AuthEnabled() {
		guard = httpx.AuthMiddleware(cfg.Auth.JWTSecret)
		log.Info().Msg("bearer auth enabled for mutating routes")
	}

	handler, stopLimiter := newHandler(cfg, log, newRouter(bookHandler, db, guard))
	defer stopLimiter()

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Str("env", cfg.Primary.Env).Msg("starting server")
		serverErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
		}
		return
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
