package lead

import (
	"fmt"
	"slices"
	"strings"
)

// Products returns the catalog in insertion order.
func (s *Service) Products() ([]string, error) {
	products, err := s.catalog.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return products, nil
}

// AddProduct appends name to the catalog. Empty and duplicate names are
// rejected; names are compared after trimming.
func (s *Service) AddProduct(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyProduct
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.catalog.LoadCatalog()
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	if containsProduct(products, name) {
		return fmt.Errorf("%w: %s", ErrDuplicateProduct, name)
	}

	if err := s.catalog.SaveCatalog(append(slices.Clone(products), name)); err != nil {
		return fmt.Errorf("saving catalog: %w", err)
	}
	s.logger.Info("product added", "product", name)
	return nil
}

// RenameProduct renames a catalog entry and every record that references
// it. Records are written first; if the catalog write then fails the
// previous records are written back and the error is returned.
func (s *Service) RenameProduct(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyProduct
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.catalog.LoadCatalog()
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	idx := slices.Index(products, oldName)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, oldName)
	}
	if newName == oldName {
		return nil
	}
	if containsProduct(products, newName) {
		return fmt.Errorf("%w: %s", ErrDuplicateProduct, newName)
	}

	records, err := s.records.LoadRecords()
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}

	updated := Clone(records)
	n := 0
	for i := range updated {
		if updated[i].Product == oldName {
			updated[i].Product = newName
			n++
		}
	}
	if n > 0 {
		if err := s.records.SaveRecords(updated); err != nil {
			return fmt.Errorf("saving renamed records: %w", err)
		}
	}

	renamed := slices.Clone(products)
	renamed[idx] = newName
	if err := s.catalog.SaveCatalog(renamed); err != nil {
		if n > 0 {
			if rbErr := s.records.SaveRecords(records); rbErr != nil {
				s.logger.Error("restoring records after failed rename", "error", rbErr)
			}
		}
		return fmt.Errorf("saving catalog: %w", err)
	}

	s.logger.Info("product renamed", "from", oldName, "to", newName, "records", n)
	return nil
}

// DeleteProduct removes name from the catalog. It fails with
// ErrProductInUse while any record references it.
func (s *Service) DeleteProduct(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.catalog.LoadCatalog()
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	idx := slices.Index(products, name)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, name)
	}

	records, err := s.records.LoadRecords()
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}
	for _, r := range records {
		if r.Product == name {
			return fmt.Errorf("%w: %s", ErrProductInUse, name)
		}
	}

	if err := s.catalog.SaveCatalog(slices.Delete(slices.Clone(products), idx, idx+1)); err != nil {
		return fmt.Errorf("saving catalog: %w", err)
	}
	s.logger.Info("product deleted", "product", name)
	return nil
}

// ClearCatalog empties the catalog. Like DeleteProduct it fails with
// ErrProductInUse while any record references a catalog product, so records
// must be cleared first.
func (s *Service) ClearCatalog() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.catalog.LoadCatalog()
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	records, err := s.records.LoadRecords()
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}
	for _, r := range records {
		if slices.Contains(products, r.Product) {
			return fmt.Errorf("%w: %s", ErrProductInUse, r.Product)
		}
	}

	if err := s.catalog.SaveCatalog([]string{}); err != nil {
		return fmt.Errorf("clearing catalog: %w", err)
	}
	s.logger.Info("catalog cleared")
	return nil
}

// requireProduct must be called with mu held.
func (s *Service) requireProduct(name string) error {
	products, err := s.catalog.LoadCatalog()
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	if !slices.Contains(products, name) {
		return fmt.Errorf("%w: %s", ErrProductNotFound, name)
	}
	return nil
}

func containsProduct(products []string, name string) bool {
	for _, p := range products {
		if strings.TrimSpace(p) == name {
			return true
		}
	}
	return false
}
