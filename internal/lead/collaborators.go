package lead

import "io"

// RecordStore persists the whole caller record collection.
// LoadRecords returns an empty slice when nothing has been saved yet.
type RecordStore interface {
	LoadRecords() ([]CallerRecord, error)
	SaveRecords(records []CallerRecord) error
}

// CatalogStore persists the ordered product catalog.
type CatalogStore interface {
	LoadCatalog() ([]string, error)
	SaveCatalog(products []string) error
}

// CallLog reads the device call log, newest first.
type CallLog interface {
	FetchRecent(limit int) ([]CallLogEntry, error)
	FetchAll() ([]CallLogEntry, error)
}

// UnknownContact is returned by Contacts for numbers with no entry.
const UnknownContact = "Unknown"

// Contacts resolves display names from the device address book.
type Contacts interface {
	LookupName(phoneNumber string) string
}

// Vault is remote storage for snapshots and published exports.
type Vault interface {
	// Put stores size bytes read from r under key, replacing any prior
	// object. version is kept alongside for freshness checks.
	Put(key string, r io.Reader, size int64, version int64) error

	// Get writes the object stored under key to w.
	Get(key string, w io.Writer) error

	// Version returns the version stored with key, or 0 if key is absent.
	Version(key string) (int64, error)

	// ValidateSetup verifies that the vault is reachable and writable.
	ValidateSetup() error
}

// Encryptor handles encryption of the record file at rest.
// Encryption uses the public key only. Decryption needs the private key,
// unlocked with a passphrase into a DecryptionContext for the session.
type Encryptor interface {
	// Setup generates a key pair and stores the private key encrypted
	// with passphrase.
	Setup(passphrase string) error

	Encrypt(r io.Reader, w io.Writer) error

	// Unlock returns an error if the passphrase is incorrect.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured returns true if both key files exist.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked private key in memory.
type DecryptionContext interface {
	Decrypt(r io.Reader, w io.Writer) error
}
