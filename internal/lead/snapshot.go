package lead

import (
	"fmt"
	"time"
)

// Snapshot is a point-in-time copy of both stores, used for vault backups.
type Snapshot struct {
	TakenAt time.Time      `json:"takenAt"`
	Records []CallerRecord `json:"records"`
	Catalog []string       `json:"catalog"`
}

// TakeSnapshot reads both stores under the write lock.
func (s *Service) TakeSnapshot() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.records.LoadRecords()
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	products, err := s.catalog.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return &Snapshot{TakenAt: s.clock.Now(), Records: records, Catalog: products}, nil
}

// RestoreSnapshot replaces both stores with the snapshot contents. If the
// catalog write fails the previous records are written back.
func (s *Service) RestoreSnapshot(snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, err := s.records.LoadRecords()
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}

	records := snap.Records
	if records == nil {
		records = []CallerRecord{}
	}
	catalog := snap.Catalog
	if catalog == nil {
		catalog = []string{}
	}

	if err := s.records.SaveRecords(records); err != nil {
		return fmt.Errorf("saving records: %w", err)
	}
	if err := s.catalog.SaveCatalog(catalog); err != nil {
		if rbErr := s.records.SaveRecords(previous); rbErr != nil {
			s.logger.Error("restoring records after failed catalog write", "error", rbErr)
		}
		return fmt.Errorf("saving catalog: %w", err)
	}

	s.logger.Info("snapshot restored", "taken_at", snap.TakenAt, "records", len(records), "products", len(catalog))
	return nil
}
