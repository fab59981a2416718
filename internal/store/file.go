package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"leadtrack/internal/fs"
	"leadtrack/internal/lead"
)

const (
	// RecordsFile holds the caller records as a JSON array.
	RecordsFile = "callData.json"
	// CatalogFile holds the product catalog as a JSON array of strings.
	CatalogFile = "itemData.json"
)

// ErrLocked is returned when an encrypted store is read without an unlocked
// decryption context.
var ErrLocked = errors.New("store is encrypted and locked")

// FileStore keeps each collection as a JSON document in a directory:
//
//	<dir>/
//	  callData.json
//	  itemData.json
//
// Writes go to a temp file that is renamed over the target, so a failed
// save leaves the previous document intact. When an Encryptor is set the
// documents are age-encrypted at rest.
type FileStore struct {
	dir       string
	encryptor lead.Encryptor
	decryptor lead.DecryptionContext
	mu        sync.Mutex
}

// NewFileStore creates a plaintext JSON store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// NewEncryptedFileStore creates a JSON store that encrypts on save. dec may
// be nil, in which case saves still work but loads fail with ErrLocked.
func NewEncryptedFileStore(dir string, enc lead.Encryptor, dec lead.DecryptionContext) (*FileStore, error) {
	if enc == nil {
		return nil, fmt.Errorf("encrypted store requires an encryptor")
	}
	s, err := NewFileStore(dir)
	if err != nil {
		return nil, err
	}
	s.encryptor = enc
	s.decryptor = dec
	return s, nil
}

func (s *FileStore) LoadRecords() ([]lead.CallerRecord, error) {
	records := []lead.CallerRecord{}
	if err := s.load(RecordsFile, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *FileStore) SaveRecords(records []lead.CallerRecord) error {
	if records == nil {
		records = []lead.CallerRecord{}
	}
	return s.save(RecordsFile, records)
}

func (s *FileStore) LoadCatalog() ([]string, error) {
	products := []string{}
	if err := s.load(CatalogFile, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *FileStore) SaveCatalog(products []string) error {
	if products == nil {
		products = []string{}
	}
	return s.save(CatalogFile, products)
}

func (s *FileStore) Close() error { return nil }

// Path returns the location of a store document.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// load decodes the named document into v. A missing or empty document
// leaves v untouched.
func (s *FileStore) load(name string, v any) error {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if s.encryptor != nil {
		if s.decryptor == nil {
			return ErrLocked
		}
		var plain bytes.Buffer
		if err := s.decryptor.Decrypt(bytes.NewReader(data), &plain); err != nil {
			return fmt.Errorf("decrypting %s: %w", name, err)
		}
		data = plain.Bytes()
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}

	if s.encryptor != nil {
		var enc bytes.Buffer
		if err := s.encryptor.Encrypt(bytes.NewReader(data), &enc); err != nil {
			return fmt.Errorf("encrypting %s: %w", name, err)
		}
		data = enc.Bytes()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return fs.WriteAtomic(s.Path(name), bytes.NewReader(data), int64(len(data)))
}

var _ Store = (*FileStore)(nil)
