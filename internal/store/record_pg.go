package store

import (
	"context"
	"fmt"
	"time"

	"bookshelf/internal/entity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores the catalog in the catalog_records table created by the
// goose migrations in db/migrations.
type Postgres struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgres(db *pgxpool.Pool, timeout time.Duration) *Postgres {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Postgres{db: db, timeout: timeout}
}

func (r *Postgres) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *Postgres) Load(ctx context.Context) ([]entity.Record, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, `SELECT title, author FROM catalog_records ORDER BY position`)
	if err != nil {
		return []entity.Record{}, err
	}
	defer rows.Close()

	records := []entity.Record{}
	for rows.Next() {
		var rec entity.Record
		if err := rows.Scan(&rec.Title, &rec.Author); err != nil {
			return []entity.Record{}, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return []entity.Record{}, err
	}
	return records, nil
}

func (r *Postgres) Save(ctx context.Context, records []entity.Record) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx)

	if _, err := tx.Exec(timeoutCtx, `DELETE FROM catalog_records`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}

	rows := make([][]any, len(records))
	for i, rec := range records {
		rows[i] = []any{i, rec.Title, rec.Author}
	}
	_, err = tx.CopyFrom(timeoutCtx,
		pgx.Identifier{"catalog_records"},
		[]string{"position", "title", "author"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy records: %w", err)
	}

	return tx.Commit(timeoutCtx)
}

// Ping reports whether the database is reachable.
func (r *Postgres) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
