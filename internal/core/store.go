package core

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
)

// ErrStorageUnavailable wraps failures reaching the backing store.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Store persists the whole record collection as one value.
type Store interface {
	// Load returns the stored records. A missing value is not an error and
	// yields an empty slice.
	Load(ctx context.Context) ([]Record, error)
	// Save replaces the stored records.
	Save(ctx context.Context, records []Record) error
}

// LoadOrEmpty loads records from store. Any read or parse failure is logged
// and degrades to an empty collection.
func LoadOrEmpty(ctx context.Context, store Store) []Record {
	records, err := store.Load(ctx)
	if err != nil {
		slog.Warn("failed to load records, starting empty", "error", err)
		return []Record{}
	}
	if records == nil {
		return []Record{}
	}
	return records
}

// MemoryStore keeps records in memory. Useful for tests and ephemeral runs.
type MemoryStore struct {
	mu      sync.Mutex
	records []Record
	saves   int
	err     error
}

// NewMemoryStore returns a store preloaded with records.
func NewMemoryStore(records ...Record) *MemoryStore {
	return &MemoryStore{records: slices.Clone(records)}
}

// Load returns a copy of the stored records.
func (m *MemoryStore) Load(ctx context.Context) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.records), nil
}

// Save replaces the stored records with a copy.
func (m *MemoryStore) Save(ctx context.Context, records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = slices.Clone(records)
	m.saves++
	return nil
}

// SetError makes subsequent Load and Save calls fail with err (nil clears it).
func (m *MemoryStore) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Saves returns how many successful saves happened.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
