package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"bookshelf/internal/config"
	"bookshelf/internal/platform/logging"
	"bookshelf/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	cfg, err := config.Load()
	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	cmd := newRootCommand(cfg, logger, openPostgres)
	if err := cmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("migrate failed")
		os.Exit(1)
	}
}

// openFunc opens the database migrations run against.
type openFunc func(ctx context.Context, dsn string) (*sql.DB, func(), error)

func openPostgres(ctx context.Context, dsn string) (*sql.DB, func(), error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect %s: %w", store.RedactDSN(dsn), err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", store.RedactDSN(dsn), err)
	}
	db := stdlib.OpenDBFromPool(pool)
	return db, func() {
		_ = db.Close()
		pool.Close()
	}, nil
}

type migrator struct {
	cfg     config.Config
	logger  zerolog.Logger
	open    openFunc
	dir     string
	dialect string
}

func newRootCommand(cfg config.Config, logger zerolog.Logger, open openFunc) *cobra.Command {
	m := &migrator{cfg: cfg, logger: logger, open: open}

	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply the catalog_records schema used by the postgres storage driver",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&m.dir, "dir", cfg.MigrationsDir, "migrations directory")
	cmd.PersistentFlags().StringVar(&m.dialect, "dialect", "postgres", "goose dialect")

	cmd.AddCommand(
		m.dbCommand("up", "Apply all pending migrations", goose.UpContext, "Migrations applied successfully"),
		m.dbCommand("down", "Roll back the latest migration", goose.DownContext, "Migrations rolled back successfully"),
		m.dbCommand("status", "Show migration status", goose.StatusContext, ""),
		&cobra.Command{
			Use:   "create <name>",
			Short: "Create a new SQL migration",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := goose.Create(nil, m.dir, args[0], "sql"); err != nil {
					return fmt.Errorf("create migration: %w", err)
				}
				m.logger.Info().Str("name", args[0]).Str("dir", m.dir).Msg("migration created")
				return nil
			},
		},
	)
	return cmd
}

type gooseFunc func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error

func (m *migrator) dbCommand(use, short string, fn gooseFunc, done string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			db, closeDB, err := m.open(ctx, m.cfg.Storage.DSN)
			if err != nil {
				return err
			}
			defer closeDB()

			goose.SetBaseFS(nil)
			if err := goose.SetDialect(m.dialect); err != nil {
				return err
			}
			if err := fn(ctx, db, m.dir); err != nil {
				return fmt.Errorf("%s: %w", use, err)
			}
			if done != "" {
				m.logger.Info().Str("dir", m.dir).Msg(done)
			}
			return nil
		},
	}
}
