package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"bookshelf/internal/catalog"
	"bookshelf/internal/entity"

	"github.com/rs/zerolog"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFile(t *testing.T) *File {
	t.Helper()
	f := NewFile(filepath.Join(t.TempDir(), "library_data.txt"))
	f.crlf = false
	return f
}

func TestFile_LoadMissingFile(t *testing.T) {
	f := newTestFile(t)

	records, err := f.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
}

func TestFile_LoadSkipsMalformedLines(t *testing.T) {
	f := newTestFile(t)
	content := "Dune,Frank Herbert\n" +
		"\n" +
		"no delimiter here\n" +
		"Too,Many,Fields\n" +
		"Emma,Jane Austen\r\n" +
		",Anonymous\n"
	require.NoError(t, os.WriteFile(f.Path(), []byte(content), 0o644))

	records, err := f.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entity.Record{
		entity.NewRecord("Dune", "Frank Herbert"),
		entity.NewRecord("Emma", "Jane Austen"),
		entity.NewRecord("", "Anonymous"),
	}, records)
}

func TestFile_LoadLegacyLineWithQuotes(t *testing.T) {
	f := newTestFile(t)
	content := "\"Hello\" World,Bob\n" +
		"Dune,Frank Herbert\n" +
		"She said \"hi,Anon\n" +
		"\"Unclosed,Ann\n" +
		"Emma,Jane Austen\n"
	require.NoError(t, os.WriteFile(f.Path(), []byte(content), 0o644))

	records, err := f.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entity.Record{
		entity.NewRecord(`"Hello" World`, "Bob"),
		entity.NewRecord("Dune", "Frank Herbert"),
		entity.NewRecord(`She said "hi`, "Anon"),
		entity.NewRecord(`"Unclosed`, "Ann"),
		entity.NewRecord("Emma", "Jane Austen"),
	}, records)
}

func TestFile_LoadBadLineDoesNotSwallowTheRest(t *testing.T) {
	f := newTestFile(t)
	content := "\"a\"b\",c,d\n" +
		"Dune,Frank Herbert\n"
	require.NoError(t, os.WriteFile(f.Path(), []byte(content), 0o644))

	records, err := f.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entity.Record{entity.NewRecord("Dune", "Frank Herbert")}, records)
}

func TestFile_LoadUnreadablePath(t *testing.T) {
	f := NewFile(t.TempDir())

	records, err := f.Load(context.Background())
	assert.Error(t, err)
	assert.Empty(t, records)
}

func TestFile_SaveFormat(t *testing.T) {
	f := newTestFile(t)
	records := []entity.Record{
		entity.NewRecord("Dune", "Frank Herbert"),
		entity.NewRecord("Dune, Messiah", "Frank Herbert"),
		entity.NewRecord(`The "Hobbit"`, "J.R.R. Tolkien"),
		entity.NewRecord(" Leading Space", "Anon"),
	}
	require.NoError(t, f.Save(context.Background(), records))

	data, err := os.ReadFile(f.Path())
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "file_save", data)
}

func TestFile_SaveUsesCRLFWhenAsked(t *testing.T) {
	f := newTestFile(t)
	f.crlf = true

	require.NoError(t, f.Save(context.Background(), []entity.Record{entity.NewRecord("Dune", "Frank Herbert")}))

	data, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	assert.Equal(t, "Dune,Frank Herbert\r\n", string(data))
}

func TestFile_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		records []entity.Record
	}{
		{"empty", []entity.Record{}},
		{"plain", []entity.Record{
			entity.NewRecord("Dune", "Frank Herbert"),
			entity.NewRecord("Emma", "Jane Austen"),
		}},
		{"delimiter and quotes", []entity.Record{
			entity.NewRecord("Dune, Messiah", "Herbert, Frank"),
			entity.NewRecord(`"Quoted"`, "O'Brien"),
		}},
		{"duplicates by position", []entity.Record{
			entity.NewRecord("Dune", "Frank Herbert"),
			entity.NewRecord("Dune", "Frank Herbert"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFile(t)
			ctx := context.Background()

			require.NoError(t, f.Save(ctx, tt.records))
			got, err := f.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.records, got)
		})
	}
}

func TestFile_SaveOverwrites(t *testing.T) {
	f := newTestFile(t)
	ctx := context.Background()

	require.NoError(t, f.Save(ctx, []entity.Record{
		entity.NewRecord("Dune", "Frank Herbert"),
		entity.NewRecord("Emma", "Jane Austen"),
	}))
	require.NoError(t, f.Save(ctx, []entity.Record{entity.NewRecord("Emma", "Jane Austen")}))

	got, err := f.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.Record{entity.NewRecord("Emma", "Jane Austen")}, got)
}

func TestFile_CatalogSavesAfterCancel(t *testing.T) {
	f := newTestFile(t)
	c := catalog.New(context.Background(), f, catalog.WithLogger(zerolog.Nop()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.Add(ctx, "Dune", "Frank Herbert")

	got, err := f.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entity.Record{entity.NewRecord("Dune", "Frank Herbert")}, got)
}

func TestFile_SaveToDirectoryFails(t *testing.T) {
	f := NewFile(t.TempDir())

	err := f.Save(context.Background(), []entity.Record{entity.NewRecord("Dune", "Frank Herbert")})
	assert.Error(t, err)
}
