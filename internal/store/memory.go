package store

import (
	"slices"
	"sync"

	"leadtrack/internal/lead"
)

// MemoryStore keeps both collections in memory. Loads and saves copy, so
// callers never share slices with the store. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records []lead.CallerRecord
	catalog []string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) LoadRecords() ([]lead.CallerRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.records == nil {
		return []lead.CallerRecord{}, nil
	}
	return lead.Clone(m.records), nil
}

func (m *MemoryStore) SaveRecords(records []lead.CallerRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = lead.Clone(records)
	return nil
}

func (m *MemoryStore) LoadCatalog() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.catalog == nil {
		return []string{}, nil
	}
	return slices.Clone(m.catalog), nil
}

func (m *MemoryStore) SaveCatalog(products []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog = slices.Clone(products)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
