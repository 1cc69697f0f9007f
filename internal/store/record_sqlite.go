package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"bookshelf/internal/entity"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed record_sqlite.sql
var sqliteSchema string

const DefaultSQLiteFile = "library.db"

// SQLite stores the catalog in a single table keyed by position.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for a throwaway database.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		path = DefaultSQLiteFile
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One writer; also keeps ":memory:" on a single connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect sqlite %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Load(ctx context.Context) ([]entity.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT title, author FROM catalog_records ORDER BY position`)
	if err != nil {
		return []entity.Record{}, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := []entity.Record{}
	for rows.Next() {
		var r entity.Record
		if err := rows.Scan(&r.Title, &r.Author); err != nil {
			return []entity.Record{}, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return []entity.Record{}, err
	}
	return records, nil
}

func (s *SQLite) Save(ctx context.Context, records []entity.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_records`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO catalog_records (position, title, author) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, i, r.Title, r.Author); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}
	return tx.Commit()
}
