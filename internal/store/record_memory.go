package store

import (
	"context"
	"sync"

	"bookshelf/internal/entity"
)

// Memory keeps the catalog in process. LoadErr and SaveErr, when set, are
// returned by the next calls, which lets tests exercise storage failures.
type Memory struct {
	mu      sync.Mutex
	records []entity.Record
	saves   int

	LoadErr error
	SaveErr error
}

func NewMemory(records ...entity.Record) *Memory {
	return &Memory{records: append([]entity.Record{}, records...)}
}

func (m *Memory) Load(ctx context.Context) ([]entity.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LoadErr != nil {
		return []entity.Record{}, m.LoadErr
	}
	return append([]entity.Record{}, m.records...), nil
}

func (m *Memory) Save(ctx context.Context, records []entity.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.records = append([]entity.Record{}, records...)
	m.saves++
	return nil
}

// Records returns what was last saved.
func (m *Memory) Records() []entity.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.Record{}, m.records...)
}

// Saves counts successful saves.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
