package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookshelf/internal/catalog"
	"bookshelf/internal/config"
	apphttp "bookshelf/internal/http"
	"bookshelf/internal/ingest"
	"bookshelf/internal/platform/logging"
	"bookshelf/internal/platform/openlibrary"
	"bookshelf/internal/store"
	"bookshelf/internal/usecase"

	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	srv, cleanup, err := newServer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTP.Addr).Str("storage", cfg.Storage.Driver).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newServer opens storage and wires the API. cleanup closes what was opened.
func newServer(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*http.Server, func(), error) {
	storage, closeStorage, err := store.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, nil, err
	}

	lib := usecase.NewLibrary(catalog.New(ctx, storage, catalog.WithLogger(logger)))

	olClient := openlibrary.NewClient(cfg.OpenLibrary.UserAgent, cfg.OpenLibrary.RPS, cfg.OpenLibrary.MaxRetries,
		openlibrary.WithBaseURL(cfg.OpenLibrary.BaseURL))
	ingestHandler := ingest.NewHTTPHandler(ingest.NewService(olClient, lib, logger), cfg.HTTP.IngestSecret)

	routerCfg := apphttp.RouterConfig{
		Library: lib,
		Ingest:  ingestHandler,
		Logger:  logger,
		HTTP:    cfg.HTTP,
	}
	if p, ok := storage.(interface{ Ping(context.Context) error }); ok {
		routerCfg.Ready = p.Ping
	}
	router := apphttp.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	cleanup := func() {
		router.Stop()
		if err := closeStorage(); err != nil {
			logger.Error().Err(err).Msg("close storage")
		}
	}
	return srv, cleanup, nil
}
