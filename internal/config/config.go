package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for leadtrack.
type Config struct {
	DeviceID    string `toml:"device_id"`
	BaseDir     string `toml:"base_dir"`
	LogDir      string `toml:"log_dir"`
	Timezone    string `toml:"timezone"`     // IANA name; empty means the system zone
	CountryCode string `toml:"country_code"` // prefixed to bare 10-digit numbers

	Store      StoreConfig      `toml:"store"`
	Encryption EncryptionConfig `toml:"encryption"`
	CallLog    CallLogConfig    `toml:"call_log"`
	Contacts   ContactsConfig   `toml:"contacts"`
	Merge      MergeConfig      `toml:"merge"`
	Export     ExportConfig     `toml:"export"`
	Log        LogConfig        `toml:"log"`
	Vaults     []VaultConfig    `toml:"vaults"`
}

// StoreConfig selects the record store backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StoreConfig struct {
	Type      string `toml:"type"`                // "json", "sqlite" or "memory"
	DataDir   string `toml:"data_dir,omitempty"`  // json and sqlite
	Encrypted bool   `toml:"encrypted,omitempty"` // json only
}

// EncryptionConfig holds paths to the age key pair used for the encrypted store.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default) or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// CallLogConfig selects where device call-log entries are read from.
type CallLogConfig struct {
	Type        string `toml:"type"`           // "file" or "memory"
	Path        string `toml:"path,omitempty"` // JSON array export of the device call log
	RecentLimit int    `toml:"recent_limit"`
}

// ContactsConfig selects where contact names are resolved from.
type ContactsConfig struct {
	Type string `toml:"type"`           // "file" or "memory"
	Path string `toml:"path,omitempty"` // JSON array of {name, phoneNumbers}
}

// MergeConfig controls the background call-log merge.
type MergeConfig struct {
	Interval string `toml:"interval"` // Go duration, e.g. "10s"
}

// ExportConfig controls spreadsheet exports.
type ExportConfig struct {
	Dir string `toml:"dir"`
}

// LogConfig controls log file rotation.
type LogConfig struct {
	MaxSizeMB  int `toml:"max_size_mb"`
	MaxBackups int `toml:"max_backups"`
	MaxAgeDays int `toml:"max_age_days"`
}

// VaultConfig represents configuration for a backup vault.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type VaultConfig struct {
	Type string `toml:"type"` // "memory", "s3", or "filesystem"
	Name string `toml:"name"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket          string `toml:"s3_bucket,omitempty"`
	S3Prefix          string `toml:"s3_prefix,omitempty"`
	S3Region          string `toml:"s3_region,omitempty"`
	S3Endpoint        string `toml:"s3_endpoint,omitempty"`
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSVaultRoot string `toml:"fs_vault_root,omitempty"`
}

const (
	DefaultMergeInterval = 10 * time.Second
	DefaultRecentLimit   = 50
	DefaultCountryCode   = "91"
)

// NewConfig creates a Config with every path under baseDir.
func NewConfig(deviceID, baseDir string) *Config {
	return &Config{
		DeviceID:    deviceID,
		BaseDir:     baseDir,
		LogDir:      filepath.Join(baseDir, "log"),
		CountryCode: DefaultCountryCode,
		Store: StoreConfig{
			Type:    "json",
			DataDir: filepath.Join(baseDir, "data"),
		},
		Encryption: EncryptionConfig{
			Type:           "age",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "leadtrack.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "leadtrack.key"),
		},
		CallLog: CallLogConfig{
			Type:        "file",
			Path:        filepath.Join(baseDir, "device", "calllog.json"),
			RecentLimit: DefaultRecentLimit,
		},
		Contacts: ContactsConfig{
			Type: "file",
			Path: filepath.Join(baseDir, "device", "contacts.json"),
		},
		Merge:  MergeConfig{Interval: DefaultMergeInterval.String()},
		Export: ExportConfig{Dir: filepath.Join(baseDir, "downloads")},
		Log:    LogConfig{MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 28},
	}
}

// Location resolves Timezone. An empty Timezone is the system zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// MergeInterval parses Merge.Interval, defaulting when it is empty.
func (c *Config) MergeInterval() (time.Duration, error) {
	if c.Merge.Interval == "" {
		return DefaultMergeInterval, nil
	}
	d, err := time.ParseDuration(c.Merge.Interval)
	if err != nil {
		return 0, fmt.Errorf("parsing merge interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("merge interval must be positive, got %s", d)
	}
	return d, nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to path. It refuses to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
