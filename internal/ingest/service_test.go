package ingest

import (
	"context"
	"fmt"
	"testing"

	"bookshelf/internal/platform/openlibrary"
	"bookshelf/internal/usecase"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOLClient struct {
	mock.Mock
}

func (m *mockOLClient) SearchBooks(ctx context.Context, query string, limit int) (*openlibrary.SearchResponse, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openlibrary.SearchResponse), args.Error(1)
}

type mockLibrary struct {
	mock.Mock
}

func (m *mockLibrary) Add(ctx context.Context, in usecase.BookInput) (usecase.Row, error) {
	args := m.Called(ctx, in)
	return usecase.Row{Title: in.Title, Author: in.Author}, args.Error(0)
}

func doc(title string, authors ...string) openlibrary.Doc {
	return openlibrary.Doc{Key: "/works/" + title, Title: title, AuthorNames: authors}
}

func TestService_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("adds new books and skips the rest", func(t *testing.T) {
		mOL := new(mockOLClient)
		mLib := new(mockLibrary)
		s := NewService(mOL, mLib, zerolog.Nop())

		mOL.On("SearchBooks", ctx, "herbert", 10).Return(&openlibrary.SearchResponse{
			Docs: []openlibrary.Doc{
				doc("Dune", "Frank Herbert", "Someone Else"),
				doc("No Author"),
				doc("Dune Messiah", "Frank Herbert"),
				doc("Children of Dune", "Frank Herbert"),
			},
		}, nil)

		mLib.On("Add", ctx, usecase.BookInput{Title: "Dune", Author: "Frank Herbert"}).Return(nil)
		mLib.On("Add", ctx, usecase.BookInput{Title: "No Author"}).Return(&usecase.ValidationError{})
		mLib.On("Add", ctx, usecase.BookInput{Title: "Dune Messiah", Author: "Frank Herbert"}).Return(usecase.ErrDuplicate)
		mLib.On("Add", ctx, usecase.BookInput{Title: "Children of Dune", Author: "Frank Herbert"}).Return(nil)

		res, err := s.Run(ctx, " herbert ", 5)
		require.NoError(t, err)

		assert.Equal(t, "herbert", res.Query)
		assert.Equal(t, 4, res.Fetched)
		assert.Equal(t, 2, res.Added)
		assert.Equal(t, 2, res.Skipped)
		assert.False(t, res.FinishedAt.Before(res.StartedAt))
		mOL.AssertExpectations(t)
		mLib.AssertExpectations(t)
	})

	t.Run("stops at max", func(t *testing.T) {
		mOL := new(mockOLClient)
		mLib := new(mockLibrary)
		s := NewService(mOL, mLib, zerolog.Nop())

		mOL.On("SearchBooks", ctx, "dune", 2).Return(&openlibrary.SearchResponse{
			Docs: []openlibrary.Doc{doc("Dune", "Frank Herbert"), doc("Dune Messiah", "Frank Herbert")},
		}, nil)
		mLib.On("Add", ctx, usecase.BookInput{Title: "Dune", Author: "Frank Herbert"}).Return(nil)

		res, err := s.Run(ctx, "dune", 1)
		require.NoError(t, err)

		assert.Equal(t, 1, res.Added)
		assert.Equal(t, 0, res.Skipped)
		mLib.AssertNumberOfCalls(t, "Add", 1)
	})

	t.Run("default and capped limits", func(t *testing.T) {
		tests := []struct {
			max   int
			limit int
		}{
			{0, DefaultMax * 2},
			{-3, DefaultMax * 2},
			{500, MaxLimit},
		}

		for _, tt := range tests {
			mOL := new(mockOLClient)
			s := NewService(mOL, new(mockLibrary), zerolog.Nop())
			mOL.On("SearchBooks", ctx, "dune", tt.limit).Return(&openlibrary.SearchResponse{}, nil)

			_, err := s.Run(ctx, "dune", tt.max)
			require.NoError(t, err)
			mOL.AssertExpectations(t)
		}
	})

	t.Run("empty query", func(t *testing.T) {
		mOL := new(mockOLClient)
		s := NewService(mOL, new(mockLibrary), zerolog.Nop())

		_, err := s.Run(ctx, "  ", 5)
		assert.ErrorIs(t, err, ErrEmptyQuery)
		mOL.AssertNotCalled(t, "SearchBooks", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("search failure", func(t *testing.T) {
		mOL := new(mockOLClient)
		s := NewService(mOL, new(mockLibrary), zerolog.Nop())
		mOL.On("SearchBooks", ctx, "dune", 10).Return(nil, fmt.Errorf("search error"))

		_, err := s.Run(ctx, "dune", 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "search error")
	})

	t.Run("unexpected add failure stops the run", func(t *testing.T) {
		mOL := new(mockOLClient)
		mLib := new(mockLibrary)
		s := NewService(mOL, mLib, zerolog.Nop())

		mOL.On("SearchBooks", ctx, "dune", 10).Return(&openlibrary.SearchResponse{
			Docs: []openlibrary.Doc{doc("Dune", "Frank Herbert"), doc("Emma", "Jane Austen")},
		}, nil)
		mLib.On("Add", ctx, mock.Anything).Return(fmt.Errorf("boom")).Once()

		res, err := s.Run(ctx, "dune", 5)
		require.Error(t, err)
		assert.Equal(t, 0, res.Added)
		mLib.AssertNumberOfCalls(t, "Add", 1)
	})
}
