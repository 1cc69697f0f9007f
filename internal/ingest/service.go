package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookshelf/internal/platform/openlibrary"
	"bookshelf/internal/usecase"

	"github.com/rs/zerolog"
)

const (
	DefaultMax = 10
	MaxLimit   = 100
)

var ErrEmptyQuery = errors.New("ingest query is required")

type OpenLibraryClient interface {
	SearchBooks(ctx context.Context, query string, limit int) (*openlibrary.SearchResponse, error)
}

// Library is the part of usecase.Library the ingest needs.
type Library interface {
	Add(ctx context.Context, in usecase.BookInput) (usecase.Row, error)
}

// Result summarizes one ingest run.
type Result struct {
	Query      string    `json:"query"`
	Fetched    int       `json:"fetched"`
	Added      int       `json:"added"`
	Skipped    int       `json:"skipped"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

type Service struct {
	olClient OpenLibraryClient
	library  Library
	logger   zerolog.Logger
}

func NewService(olClient OpenLibraryClient, library Library, logger zerolog.Logger) *Service {
	return &Service{
		olClient: olClient,
		library:  library,
		logger:   logger.With().Str("component", "ingest").Logger(),
	}
}

// Run searches Open Library for query and adds up to max new records.
// Hits without a title or an author, and records already in the catalog,
// are skipped.
func (s *Service) Run(ctx context.Context, query string, max int) (res Result, err error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}, ErrEmptyQuery
	}
	if max <= 0 {
		max = DefaultMax
	}
	if max > MaxLimit {
		max = MaxLimit
	}

	res = Result{Query: query, StartedAt: time.Now()}
	defer func() {
		res.FinishedAt = time.Now()
	}()

	// Ask for extra hits since some will be duplicates or incomplete.
	searchLimit := max * 2
	if searchLimit > MaxLimit {
		searchLimit = MaxLimit
	}

	searchRes, err := s.olClient.SearchBooks(ctx, query, searchLimit)
	if err != nil {
		return res, fmt.Errorf("search failed for %q: %w", query, err)
	}
	res.Fetched = len(searchRes.Docs)

	for _, doc := range searchRes.Docs {
		if res.Added >= max {
			break
		}
		in := usecase.BookInput{Title: strings.TrimSpace(doc.Title), Author: strings.TrimSpace(doc.Author())}

		_, err := s.library.Add(ctx, in)
		switch {
		case err == nil:
			res.Added++
		case errors.Is(err, usecase.ErrDuplicate), errors.Is(err, usecase.ErrInvalidInput):
			res.Skipped++
			s.logger.Debug().Str("key", doc.Key).Err(err).Msg("skipping search hit")
		default:
			return res, fmt.Errorf("add %q: %w", in.Title, err)
		}
	}

	s.logger.Info().
		Str("query", query).
		Int("fetched", res.Fetched).
		Int("added", res.Added).
		Int("skipped", res.Skipped).
		Msg("ingest finished")
	return res, nil
}
