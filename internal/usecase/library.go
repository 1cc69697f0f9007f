package usecase

import (
	"context"
	"errors"

	"bookshelf/internal/catalog"
	"bookshelf/internal/entity"
	"bookshelf/internal/platform/validation"
)

var (
	ErrInvalidInput = errors.New("fields cannot be empty")
	ErrDuplicate    = errors.New("duplicate book not allowed")
	ErrEmptyKeyword = errors.New("enter search keyword")
)

// BookInput is what every shell collects from the user.
type BookInput struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author" validate:"required"`
}

// ValidationError lists the empty fields of a rejected BookInput.
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	return ErrInvalidInput.Error() + ": " + validation.Join(e.Fields)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Row is a record with its current catalog position.
type Row struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Author   string `json:"author"`
}

func (r Row) Record() entity.Record {
	return entity.NewRecord(r.Title, r.Author)
}

// Library holds the add/update/delete/search rules shared by the CLI, the
// terminal UI and the HTTP API.
type Library struct {
	catalog *catalog.Catalog
}

func NewLibrary(c *catalog.Catalog) *Library {
	return &Library{catalog: c}
}

func validateInput(in BookInput) error {
	if errs := validation.Struct(in); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// Add rejects empty fields and case-insensitive duplicates, then appends.
func (l *Library) Add(ctx context.Context, in BookInput) (Row, error) {
	if err := validateInput(in); err != nil {
		return Row{}, err
	}
	pos, added := l.catalog.AddUnlessDuplicate(ctx, in.Title, in.Author)
	if !added {
		return Row{}, ErrDuplicate
	}
	return Row{Position: pos, Title: in.Title, Author: in.Author}, nil
}

// Update replaces the record at position. Duplicates are not checked.
func (l *Library) Update(ctx context.Context, position int, in BookInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	return l.catalog.Update(ctx, position, in.Title, in.Author)
}

func (l *Library) Delete(ctx context.Context, position int) error {
	return l.catalog.Delete(ctx, position)
}

// Search returns matching records in catalog order. An empty result is not
// an error.
func (l *Library) Search(keyword string) ([]entity.Record, error) {
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}
	return l.catalog.Search(keyword), nil
}

// Rows returns the whole catalog with positions.
func (l *Library) Rows() []Row {
	records := l.catalog.List()
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = Row{Position: i, Title: r.Title, Author: r.Author}
	}
	return rows
}

func (l *Library) Len() int {
	return l.catalog.Len()
}

func (l *Library) IsDuplicate(title, author string) bool {
	return l.catalog.IsDuplicate(title, author)
}
