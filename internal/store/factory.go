package store

import (
	"fmt"
	"path/filepath"

	"leadtrack/internal/config"
	"leadtrack/internal/lead"
)

// SQLiteFile is the database file name used by the sqlite backend.
const SQLiteFile = "leadtrack.db"

// NewStoreFromConfig creates a Store based on the store config type.
// enc and dec are only used by an encrypted json store; dec may be nil
// when the store has not been unlocked.
func NewStoreFromConfig(cfg config.StoreConfig, enc lead.Encryptor, dec lead.DecryptionContext) (Store, error) {
	switch cfg.Type {
	case "json", "":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for json store")
		}
		if cfg.Encrypted {
			s, err := NewEncryptedFileStore(cfg.DataDir, enc, dec)
			if err != nil {
				return nil, err
			}
			return s, nil
		}
		s, err := NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite store")
		}
		if cfg.Encrypted {
			return nil, fmt.Errorf("encryption is only supported by the json store")
		}
		s, err := NewSQLiteStore(filepath.Join(cfg.DataDir, SQLiteFile))
		if err != nil {
			return nil, err
		}
		if err := s.CheckMigrations(); err != nil {
			s.Close()
			return nil, fmt.Errorf("checking schema version: %w", err)
		}
		return s, nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
