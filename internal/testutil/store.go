package testutil

import (
	"errors"
	"sync"

	"leadtrack/internal/lead"
	"leadtrack/internal/store"
)

// ErrInjected is the default error returned by FailingStore.
var ErrInjected = errors.New("injected store failure")

// NewTestStore returns an in-memory store seeded with records and catalog.
func NewTestStore(records []lead.CallerRecord, catalog ...string) *store.MemoryStore {
	s := store.NewMemoryStore()
	if records != nil {
		_ = s.SaveRecords(records)
	}
	if catalog != nil {
		_ = s.SaveCatalog(catalog)
	}
	return s
}

// FailingStore wraps an in-memory store and fails the operations whose
// flag is set. Saves are counted whether or not they fail.
type FailingStore struct {
	*store.MemoryStore

	mu              sync.Mutex
	Err             error
	FailLoadRecords bool
	FailSaveRecords bool
	FailLoadCatalog bool
	FailSaveCatalog bool

	RecordSaves  int
	CatalogSaves int
}

// NewFailingStore returns a FailingStore over the given data with no
// failures enabled.
func NewFailingStore(records []lead.CallerRecord, catalog ...string) *FailingStore {
	return &FailingStore{MemoryStore: NewTestStore(records, catalog...), Err: ErrInjected}
}

func (f *FailingStore) LoadRecords() ([]lead.CallerRecord, error) {
	f.mu.Lock()
	fail := f.FailLoadRecords
	f.mu.Unlock()
	if fail {
		return nil, f.Err
	}
	return f.MemoryStore.LoadRecords()
}

func (f *FailingStore) SaveRecords(records []lead.CallerRecord) error {
	f.mu.Lock()
	f.RecordSaves++
	fail := f.FailSaveRecords
	f.mu.Unlock()
	if fail {
		return f.Err
	}
	return f.MemoryStore.SaveRecords(records)
}

func (f *FailingStore) LoadCatalog() ([]string, error) {
	f.mu.Lock()
	fail := f.FailLoadCatalog
	f.mu.Unlock()
	if fail {
		return nil, f.Err
	}
	return f.MemoryStore.LoadCatalog()
}

func (f *FailingStore) SaveCatalog(products []string) error {
	f.mu.Lock()
	f.CatalogSaves++
	fail := f.FailSaveCatalog
	f.mu.Unlock()
	if fail {
		return f.Err
	}
	return f.MemoryStore.SaveCatalog(products)
}

var _ store.Store = (*FailingStore)(nil)
