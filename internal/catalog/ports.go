package catalog

import (
	"context"

	"bookshelf/internal/entity"
)

//go:generate mockgen -source=ports.go -destination=mock_storage_test.go -package=catalog

// Storage persists the full ordered list of records.
//
// Save always receives the complete list and overwrites whatever was stored
// before. Load returns an empty list when nothing has been stored yet.
type Storage interface {
	Load(ctx context.Context) ([]entity.Record, error)
	Save(ctx context.Context, records []entity.Record) error
}
