package catalog

import (
	"context"
	"os"
	"sync"

	"bookshelf/internal/entity"

	"github.com/rs/zerolog"
)

// Catalog is the in-memory ordered list of records. Every mutation is
// followed by a full-list save to the underlying storage.
type Catalog struct {
	mu      sync.RWMutex
	records []entity.Record
	storage Storage
	logger  zerolog.Logger
}

type Option func(*Catalog)

// WithLogger sets the logger that receives load and save failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// New loads the catalog from storage. A failed load is logged and leaves the
// catalog empty; it is never returned to the caller.
func New(ctx context.Context, storage Storage, opts ...Option) *Catalog {
	c := &Catalog{
		storage: storage,
		logger:  zerolog.New(os.Stderr).With().Timestamp().Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	records, err := storage.Load(ctx)
	if err != nil {
		loadFailuresTotal.Inc()
		c.logger.Warn().Err(err).Msg("catalog load failed, starting empty")
		records = nil
	}
	c.records = make([]entity.Record, 0, len(records))
	c.records = append(c.records, records...)
	recordsGauge.Set(float64(len(c.records)))

	c.logger.Debug().Int("records", len(c.records)).Msg("catalog loaded")
	return c
}

// IsDuplicate reports whether a record with the same title and author exists,
// ignoring case.
func (c *Catalog) IsDuplicate(title, author string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isDuplicate(title, author)
}

// isDuplicate expects c.mu to be held.
func (c *Catalog) isDuplicate(title, author string) bool {
	for _, r := range c.records {
		if equalFold(r.Title, title) && equalFold(r.Author, author) {
			return true
		}
	}
	return false
}

// Add appends a new record, persists the list and returns the new record's
// position. It does not validate its input; callers check emptiness and
// duplicates first.
func (c *Catalog) Add(ctx context.Context, title, author string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = append(c.records, entity.NewRecord(title, author))
	c.persist(ctx, "add")
	return len(c.records) - 1
}

// AddUnlessDuplicate appends a new record unless one with the same title and
// author already exists, ignoring case. The check and the append happen under
// one lock. It returns the new position and true, or -1 and false for a
// duplicate.
func (c *Catalog) AddUnlessDuplicate(ctx context.Context, title, author string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isDuplicate(title, author) {
		return -1, false
	}
	c.records = append(c.records, entity.NewRecord(title, author))
	c.persist(ctx, "add")
	return len(c.records) - 1, true
}

// Update replaces the record at position.
func (c *Catalog) Update(ctx context.Context, position int, title, author string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if position < 0 || position >= len(c.records) {
		return outOfRange(position, len(c.records))
	}
	c.records[position] = entity.NewRecord(title, author)
	c.persist(ctx, "update")
	return nil
}

// Delete removes the record at position; later records move down by one.
func (c *Catalog) Delete(ctx context.Context, position int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if position < 0 || position >= len(c.records) {
		return outOfRange(position, len(c.records))
	}
	c.records = append(c.records[:position], c.records[position+1:]...)
	c.persist(ctx, "delete")
	return nil
}

// Search returns, in catalog order, the records whose title or author
// contains keyword, ignoring case.
func (c *Catalog) Search(keyword string) []entity.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	operationsTotal.WithLabelValues("search").Inc()

	out := []entity.Record{}
	for _, r := range c.records {
		if containsFold(r.Title, keyword) || containsFold(r.Author, keyword) {
			out = append(out, r)
		}
	}
	return out
}

// List returns a copy of the current records in order.
func (c *Catalog) List() []entity.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]entity.Record, len(c.records))
	copy(out, c.records)
	return out
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// persist writes the whole list. Failures are reported on the logger only:
// the in-memory change stands even if storage did not take it. The save runs
// even when ctx is already cancelled, since the change it records has been
// applied. Callers hold c.mu.
func (c *Catalog) persist(ctx context.Context, op string) {
	operationsTotal.WithLabelValues(op).Inc()
	recordsGauge.Set(float64(len(c.records)))

	snapshot := make([]entity.Record, len(c.records))
	copy(snapshot, c.records)
	if err := c.storage.Save(context.WithoutCancel(ctx), snapshot); err != nil {
		saveFailuresTotal.Inc()
		c.logger.Error().Err(err).Str("operation", op).Int("records", len(snapshot)).Msg("catalog save failed")
	}
}
