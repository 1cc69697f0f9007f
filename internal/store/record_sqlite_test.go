package store

import (
	"context"
	"path/filepath"
	"testing"

	"bookshelf/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLite_RoundTrip(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	records := []entity.Record{
		entity.NewRecord("Dune", "Frank Herbert"),
		entity.NewRecord("Dune, Messiah", "Frank Herbert"),
		entity.NewRecord("Emma", "Jane Austen"),
	}
	require.NoError(t, s.Save(ctx, records))

	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestSQLite_SaveOverwritesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, []entity.Record{
		entity.NewRecord("Dune", "Frank Herbert"),
		entity.NewRecord("Emma", "Jane Austen"),
	}))
	require.NoError(t, s.Save(ctx, []entity.Record{entity.NewRecord("Emma", "Jane Austen")}))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.Record{entity.NewRecord("Emma", "Jane Austen")}, got)
}
