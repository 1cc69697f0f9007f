package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookshelf/internal/catalog"
	"bookshelf/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Open returns the storage backend named by cfg.Driver together with a
// function that releases it.
func Open(ctx context.Context, cfg config.Storage, logger zerolog.Logger) (catalog.Storage, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case config.DriverFile, "":
		return NewFile(cfg.DataPath()), noop, nil
	case config.DriverYAML:
		return NewYAML(cfg.DataPath()), noop, nil
	case config.DriverMemory:
		return NewMemory(), noop, nil
	case config.DriverSQLite:
		s, err := OpenSQLite(cfg.DataPath())
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.DriverBadger:
		badgerLog := logger.With().Str("component", "badger").Logger()
		b, err := OpenBadger(BadgerConfig{Dir: cfg.DataPath(), Logger: &badgerLog})
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	case config.DriverPostgres:
		pool, err := openPool(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Str("dsn", RedactDSN(cfg.DSN)).Msg("database connection OK")
		return NewPostgres(pool, cfg.Timeout), func() error { pool.Close(); return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func openPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot ping database (%s): %w", RedactDSN(dsn), err)
	}
	return pool, nil
}

// RedactDSN hides the credentials part of a connection URL.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
