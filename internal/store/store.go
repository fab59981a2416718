// Package store holds the backends that persist the caller record
// collection and the product catalog.
package store

import "leadtrack/internal/lead"

// Store persists both collections. Each Save replaces the stored collection
// as a whole.
type Store interface {
	lead.RecordStore
	lead.CatalogStore
	Close() error
}
