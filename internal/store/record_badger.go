package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"bookshelf/internal/entity"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

const DefaultBadgerDir = "library.badger"

var recordPrefix = []byte("record/")

func recordKey(position int) []byte {
	return []byte(fmt.Sprintf("record/%08d", position))
}

// BadgerConfig configures the embedded key-value backend.
type BadgerConfig struct {
	// Dir holds the database files. Ignored when InMemory is set.
	Dir      string
	InMemory bool
	// Logger receives badger's own log output. Nil disables it.
	Logger *zerolog.Logger
}

// badgerLogger adapts zerolog to badger's Logger interface.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info().Msgf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

// Badger stores each record under a zero-padded position key so key order
// is catalog order.
type Badger struct {
	db *badger.DB
}

func OpenBadger(cfg BadgerConfig) (*Badger, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Dir == "" {
			cfg.Dir = DefaultBadgerDir
		}
		if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
			return nil, fmt.Errorf("create badger directory %s: %w", cfg.Dir, err)
		}
		opts = badger.DefaultOptions(cfg.Dir).WithSyncWrites(true)
	}
	opts = opts.WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(badgerLogger{logger: *cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &Badger{db: db}, nil
}

func (b *Badger) Close() error {
	return b.db.Close()
}

func (b *Badger) Load(ctx context.Context) ([]entity.Record, error) {
	records := []entity.Record{}
	err := b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: recordPrefix, PrefetchValues: true, PrefetchSize: 100})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var r entity.Record
				if err := json.Unmarshal(val, &r); err != nil {
					return fmt.Errorf("decode %s: %w", item.Key(), err)
				}
				records = append(records, r)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return []entity.Record{}, err
	}
	return records, nil
}

func (b *Badger) Save(ctx context.Context, records []entity.Record) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		var stale [][]byte
		it := txn.NewIterator(badger.IteratorOptions{Prefix: recordPrefix})
		for it.Rewind(); it.Valid(); it.Next() {
			stale = append(stale, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		for i, r := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			val, err := json.Marshal(r)
			if err != nil {
				return err
			}
			if err := txn.Set(recordKey(i), val); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, badger.ErrTxnTooBig) {
		return fmt.Errorf("catalog too large for a single transaction: %w", err)
	}
	return err
}
