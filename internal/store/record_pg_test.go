package store

import (
	"context"
	"os"
	"testing"
	"time"

	"bookshelf/internal/entity"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPostgresTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("Skipping test: TEST_DB_DSN not set")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Skipf("Skipping test: cannot connect to test database: %v", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		t.Skipf("Skipping test: cannot ping test database: %v", err)
	}
	t.Cleanup(db.Close)

	_, err = db.Exec(ctx, `CREATE TABLE IF NOT EXISTS catalog_records (
		position INTEGER PRIMARY KEY,
		title    TEXT NOT NULL,
		author   TEXT NOT NULL
	)`)
	require.NoError(t, err)
	return db
}

func TestPostgres_RoundTrip(t *testing.T) {
	db := setupPostgresTestDB(t)
	repo := NewPostgres(db, 2*time.Second)
	ctx := context.Background()

	records := []entity.Record{
		entity.NewRecord("Dune", "Frank Herbert"),
		entity.NewRecord("Dune, Messiah", "Frank Herbert"),
	}
	require.NoError(t, repo.Save(ctx, records))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	require.NoError(t, repo.Save(ctx, []entity.Record{}))
	got, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
