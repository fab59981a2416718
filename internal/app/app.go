package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"leadtrack/internal/calllog"
	"leadtrack/internal/config"
	"leadtrack/internal/contacts"
	"leadtrack/internal/encryption"
	"leadtrack/internal/export"
	"leadtrack/internal/fs"
	"leadtrack/internal/lead"
	"leadtrack/internal/merge"
	"leadtrack/internal/store"
	"leadtrack/internal/vault"
)

// ErrNoVaults is returned by backup, restore and publishing when no vault
// is configured.
var ErrNoVaults = errors.New("no vaults configured")

// ErrEmptyPassphrase is returned by SetupKeys for an empty passphrase.
var ErrEmptyPassphrase = errors.New("passphrase must not be empty")

// ErrNewerSnapshot is returned by Backup when a vault already holds a newer
// snapshot than the local stores.
var ErrNewerSnapshot = errors.New("vault holds a newer snapshot")

// Options adjusts how an App is built.
type Options struct {
	// Passphrase unlocks an encrypted store. When empty, LEADTRACK_PASSPHRASE
	// is used.
	Passphrase string
	// EchoLog also writes log lines to stderr.
	EchoLog bool
	Clock   lead.Clock
	IDs     lead.IDGenerator
}

type namedVault struct {
	name  string
	vault lead.Vault
}

// App is the application layer between the CLI and lead.Service.
// It constructs all dependencies from config, exposes operations that accept
// raw CLI strings, and releases resources on Close.
type App struct {
	cfg     *config.Config
	store   store.Store
	vaults  []namedVault
	service *lead.Service
	exports *export.Writer
	clock   lead.Clock
	op      *Operation
	logger  lead.Logger
	logFile io.Closer
}

// NewApp creates a fully wired App from the given config.
// operation names the CLI command being run (e.g. "merge", "export").
// The caller must call Close when done.
func NewApp(cfg *config.Config, operation string, opts Options) (*App, error) {
	if opts.Clock == nil {
		opts.Clock = lead.RealClock{}
	}
	if opts.IDs == nil {
		opts.IDs = lead.UUIDGenerator{}
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	op := NewOperation(operation, opts.Clock, opts.IDs)
	slogger, logFile, err := newLogger(cfg.LogDir, op.ID, cfg.Log, opts.EchoLog)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	a := &App{cfg: cfg, clock: opts.Clock, op: op, logger: logger, logFile: logFile}
	if err := a.wire(cfg, loc, opts); err != nil {
		logFile.Close()
		return nil, err
	}

	logger.Debug("operation started", "operation", op.Name)
	return a, nil
}

func (a *App) wire(cfg *config.Config, loc *time.Location, opts Options) error {
	var enc lead.Encryptor
	var dec lead.DecryptionContext
	if cfg.Store.Encrypted {
		var err error
		enc, err = encryption.NewEncryptorFromConfig(cfg.Encryption)
		if err != nil {
			return fmt.Errorf("creating encryptor: %w", err)
		}
		if !enc.IsConfigured() {
			return fmt.Errorf("store is encrypted but keys are missing: run `leadtrack key setup`")
		}
		passphrase := opts.Passphrase
		if passphrase == "" {
			passphrase = os.Getenv(EnvPassphrase)
		}
		if passphrase != "" {
			dec, err = enc.Unlock(passphrase)
			if err != nil {
				return fmt.Errorf("unlocking store: %w", err)
			}
		}
	}

	st, err := store.NewStoreFromConfig(cfg.Store, enc, dec)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	a.store = st

	callLog, err := calllog.NewCallLogFromConfig(cfg.CallLog)
	if err != nil {
		st.Close()
		return fmt.Errorf("creating call log: %w", err)
	}
	book, err := contacts.NewContactsFromConfig(cfg.Contacts, cfg.CountryCode)
	if err != nil {
		// The address book only supplies display names.
		a.logger.Warn("contacts unavailable", "error", err)
	}

	for _, vc := range cfg.Vaults {
		v, err := vault.NewVaultFromConfig(vc)
		if err != nil {
			st.Close()
			return fmt.Errorf("creating vault %q: %w", vc.Name, err)
		}
		a.vaults = append(a.vaults, namedVault{name: vc.Name, vault: v})
	}

	a.service = lead.NewService(st, st, callLog, book, a.logger, a.clock, lead.Options{
		Location:    loc,
		CountryCode: cfg.CountryCode,
		RecentLimit: cfg.CallLog.RecentLimit,
	})
	a.exports = export.NewWriter(cfg.Export.Dir, a.logger)
	return nil
}

// Service exposes the underlying service.
func (a *App) Service() *lead.Service { return a.service }

// Operation returns the operation this App was created for.
func (a *App) Operation() *Operation { return a.op }

// RecordInput carries the raw CLI fields of a record form.
type RecordInput struct {
	Name       string
	Phone      string
	Label      string
	Product    string
	RemindDate string
	Note       string
	// ClearRemind and ClearNote empty the stored value on update.
	ClearRemind bool
	ClearNote   bool
}

func (in RecordInput) form() (lead.RecordForm, error) {
	form := lead.RecordForm{
		Name:        strings.TrimSpace(in.Name),
		PhoneNumber: in.Phone,
		ColorLabel:  lead.DefaultLabel,
		Product:     strings.TrimSpace(in.Product),
		Note:        in.Note,
	}
	if in.Label != "" {
		l, err := lead.ParseColorLabel(in.Label)
		if err != nil {
			return form, err
		}
		form.ColorLabel = l
	}
	if in.RemindDate != "" {
		d, err := lead.ParseDate(in.RemindDate)
		if err != nil {
			return form, err
		}
		form.RemindDate = d
	}
	return form, nil
}

// AddRecord saves a new caller record.
func (a *App) AddRecord(in RecordInput) (*lead.CallerRecord, error) {
	form, err := in.form()
	if err != nil {
		return nil, err
	}
	rec, err := a.service.AddRecord(form)
	return rec, a.op.Fail(err)
}

// UpdateRecord edits the record for phone and product. Empty fields in in
// keep the stored value unless the matching Clear flag is set.
func (a *App) UpdateRecord(phone, product string, in RecordInput) (*lead.CallerRecord, error) {
	normalized, err := lead.NormalizePhone(phone, a.cfg.CountryCode)
	if err != nil {
		return nil, err
	}
	found, err := a.service.FindRecords(normalized)
	if err != nil {
		return nil, err
	}
	var current *lead.CallerRecord
	for i := range found {
		if found[i].Product == product {
			current = &found[i]
		}
	}
	if current == nil {
		return nil, fmt.Errorf("%w: %s/%s", lead.ErrRecordNotFound, normalized, product)
	}

	form := lead.RecordForm{
		ColorLabel: current.ColorLabel,
		Product:    current.Product,
		RemindDate: current.RemindDate,
		Note:       current.Note,
	}
	if in.Label != "" {
		if form.ColorLabel, err = lead.ParseColorLabel(in.Label); err != nil {
			return nil, err
		}
	}
	if in.Product != "" {
		form.Product = strings.TrimSpace(in.Product)
	}
	if in.RemindDate != "" {
		if form.RemindDate, err = lead.ParseDate(in.RemindDate); err != nil {
			return nil, err
		}
	}
	if in.Note != "" {
		form.Note = in.Note
	}
	if in.ClearRemind {
		form.RemindDate = lead.Date{}
	}
	if in.ClearNote {
		form.Note = ""
	}

	rec, err := a.service.UpdateRecord(current.Key(), form)
	return rec, a.op.Fail(err)
}

// Records returns every stored record.
func (a *App) Records() ([]lead.CallerRecord, error) {
	return a.service.Records()
}

// FindRecords returns the records for a phone number.
func (a *App) FindRecords(phone string) ([]lead.CallerRecord, error) {
	return a.service.FindRecords(phone)
}

// parseDay parses s, defaulting to today when s is empty.
func (a *App) parseDay(s string) (lead.Date, error) {
	if strings.TrimSpace(s) == "" {
		return a.service.Today(), nil
	}
	return lead.ParseDate(s)
}

func (a *App) parseSpan(from, to string) (lead.Date, lead.Date, error) {
	start, err := a.parseDay(from)
	if err != nil {
		return lead.Date{}, lead.Date{}, err
	}
	end, err := a.parseDay(to)
	if err != nil {
		return lead.Date{}, lead.Date{}, err
	}
	if end.Before(start) {
		return lead.Date{}, lead.Date{}, fmt.Errorf("end date %s is before start date %s", end, start)
	}
	return start, end, nil
}

// DateView buckets callers per day between from and to (YYYY-MM-DD, empty
// means today).
func (a *App) DateView(from, to string) ([]lead.DateCount, error) {
	start, end, err := a.parseSpan(from, to)
	if err != nil {
		return nil, err
	}
	return a.service.DateView(start, end), nil
}

// DateDetail lists callers active on day.
func (a *App) DateDetail(day string) ([]lead.DetailRow, error) {
	d, err := a.parseDay(day)
	if err != nil {
		return nil, err
	}
	return a.service.DateDetailView(d), nil
}

// ProductView buckets callers per product over the last days.
func (a *App) ProductView(days int) ([]lead.ProductCount, error) {
	w, err := lead.ParseWindow(days)
	if err != nil {
		return nil, err
	}
	return a.service.ProductView(w), nil
}

// ProductDetail lists callers for product over the last days.
func (a *App) ProductDetail(product string, days int) ([]lead.DetailRow, error) {
	w, err := lead.ParseWindow(days)
	if err != nil {
		return nil, err
	}
	return a.service.ProductDetailView(product, w), nil
}

// LabelView counts callers per label.
func (a *App) LabelView() []lead.LabelCount {
	return a.service.LabelView()
}

// LabelDetail lists callers with label.
func (a *App) LabelDetail(label string) ([]lead.DetailRow, error) {
	l, err := lead.ParseColorLabel(label)
	if err != nil {
		return nil, err
	}
	return a.service.LabelDetailView(l), nil
}

// Reminders lists the records to follow up on day (empty means today).
func (a *App) Reminders(day string) ([]lead.CallerRecord, error) {
	d, err := a.parseDay(day)
	if err != nil {
		return nil, err
	}
	return a.service.Reminders(d), nil
}

// RecentCalls returns the newest call-log entries.
func (a *App) RecentCalls(limit int) []lead.RecentCall {
	return a.service.RecentCalls(limit)
}

// Merge folds the device call log into the stored histories once.
func (a *App) Merge() (int, error) {
	n, err := a.service.MergeCallLog()
	return n, a.op.Fail(err)
}

// Watch merges on the configured interval and on every trigger until ctx
// is done.
func (a *App) Watch(ctx context.Context, triggers <-chan struct{}) error {
	interval, err := a.cfg.MergeInterval()
	if err != nil {
		return err
	}
	runner := merge.NewRunner(a.service, interval, a.service.Location(), a.logger)
	return a.op.Fail(runner.Watch(ctx, triggers))
}

// Products returns the catalog.
func (a *App) Products() ([]string, error) { return a.service.Products() }

func (a *App) AddProduct(name string) error {
	return a.op.Fail(a.service.AddProduct(name))
}

func (a *App) RenameProduct(oldName, newName string) error {
	return a.op.Fail(a.service.RenameProduct(oldName, newName))
}

func (a *App) DeleteProduct(name string) error {
	return a.op.Fail(a.service.DeleteProduct(name))
}

// Export writes the spreadsheet for from..to, or for all time when all is
// set, and optionally publishes it to every vault. It returns the local
// file path.
func (a *App) Export(from, to string, all, publish bool) (string, error) {
	var (
		path string
		err  error
	)
	if all {
		path, err = a.exports.WriteAll(a.service.ExportAll())
	} else {
		var start, end lead.Date
		start, end, err = a.parseSpan(from, to)
		if err != nil {
			return "", err
		}
		path, err = a.exports.WriteRange(start, end, a.service.ExportRange(start, end))
	}
	if err != nil {
		return "", a.op.Fail(err)
	}

	if publish {
		if err := a.publish(path); err != nil {
			return path, a.op.Fail(err)
		}
	}
	return path, nil
}

func (a *App) publish(path string) error {
	if len(a.vaults) == 0 {
		return ErrNoVaults
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading export: %w", err)
	}
	key := vault.ExportKey(a.cfg.DeviceID, filepath.Base(path))
	version := a.clock.Now().Unix()
	for _, nv := range a.vaults {
		if err := nv.vault.Put(key, bytes.NewReader(data), int64(len(data)), version); err != nil {
			return fmt.Errorf("publishing to vault %q: %w", nv.name, err)
		}
		a.logger.Info("export published", "vault", nv.name, "key", key)
	}
	return nil
}

// Downloads lists the export files, newest first.
func (a *App) Downloads() ([]fs.FileInfo, error) {
	return a.exports.List()
}

func (a *App) DeleteDownload(name string) error {
	return a.op.Fail(a.exports.Delete(name))
}

func (a *App) DeleteAllDownloads() (int, error) {
	n, err := a.exports.DeleteAll()
	return n, a.op.Fail(err)
}

// ClearData empties the records, the catalog, or both.
func (a *App) ClearData(records, catalog bool) error {
	if records {
		if err := a.service.ClearRecords(); err != nil {
			return a.op.Fail(err)
		}
	}
	if catalog {
		if err := a.service.ClearCatalog(); err != nil {
			return a.op.Fail(err)
		}
	}
	return nil
}

// Backup uploads a snapshot of both stores to every configured vault and
// returns the version it was stored under. A vault holding a newer snapshot
// fails the backup with ErrNewerSnapshot unless force is set. A sqlite store
// also uploads a copy of its database file.
func (a *App) Backup(force bool) (int64, error) {
	if len(a.vaults) == 0 {
		return 0, a.op.Fail(ErrNoVaults)
	}
	snap, err := a.service.TakeSnapshot()
	if err != nil {
		return 0, a.op.Fail(err)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return 0, a.op.Fail(fmt.Errorf("encoding snapshot: %w", err))
	}

	key := vault.SnapshotKey(a.cfg.DeviceID)
	version := snap.TakenAt.Unix()
	for _, nv := range a.vaults {
		remote, err := nv.vault.Version(key)
		if err != nil {
			return 0, a.op.Fail(fmt.Errorf("checking vault %q: %w", nv.name, err))
		}
		if remote <= version {
			continue
		}
		if !force {
			return 0, a.op.Fail(fmt.Errorf("vault %q at version %d, local %d: %w", nv.name, remote, version, ErrNewerSnapshot))
		}
		a.logger.Warn("vault holds a newer snapshot, overwriting", "vault", nv.name, "remote", remote, "local", version)
	}

	for _, nv := range a.vaults {
		if err := nv.vault.Put(key, bytes.NewReader(data), int64(len(data)), version); err != nil {
			return 0, a.op.Fail(fmt.Errorf("uploading to vault %q: %w", nv.name, err))
		}
		a.logger.Info("snapshot uploaded", "vault", nv.name, "records", len(snap.Records), "version", version)
	}

	if db, ok := a.store.(*store.SQLiteStore); ok {
		if err := a.backupDatabase(db, version); err != nil {
			return 0, a.op.Fail(err)
		}
	}
	return version, nil
}

func (a *App) backupDatabase(db *store.SQLiteStore, version int64) error {
	dir, err := os.MkdirTemp("", "leadtrack-backup-")
	if err != nil {
		return fmt.Errorf("creating backup directory: %w", err)
	}
	defer os.RemoveAll(dir)

	copyPath := filepath.Join(dir, store.SQLiteFile)
	if err := db.BackupTo(copyPath); err != nil {
		return err
	}

	key := vault.DatabaseKey(a.cfg.DeviceID)
	for _, nv := range a.vaults {
		if err := putFile(nv.vault, key, copyPath, version); err != nil {
			return fmt.Errorf("uploading database to vault %q: %w", nv.name, err)
		}
		a.logger.Info("database uploaded", "vault", nv.name, "version", version)
	}
	return nil
}

func putFile(v lead.Vault, key, path string, version int64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	return v.Put(key, f, info.Size(), version)
}

// Restore replaces both stores with the newest snapshot found in the vaults,
// or in the named vault when vaultName is set.
func (a *App) Restore(vaultName string) (*lead.Snapshot, error) {
	if len(a.vaults) == 0 {
		return nil, a.op.Fail(ErrNoVaults)
	}
	key := vault.SnapshotKey(a.cfg.DeviceID)

	var src *namedVault
	var newest int64 = -1
	for i := range a.vaults {
		nv := &a.vaults[i]
		if vaultName != "" && nv.name != vaultName {
			continue
		}
		v, err := nv.vault.Version(key)
		if err != nil {
			return nil, a.op.Fail(fmt.Errorf("checking vault %q: %w", nv.name, err))
		}
		if v > newest {
			src, newest = nv, v
		}
	}
	if src == nil {
		return nil, a.op.Fail(fmt.Errorf("no vault named %q", vaultName))
	}

	var buf bytes.Buffer
	if err := src.vault.Get(key, &buf); err != nil {
		return nil, a.op.Fail(fmt.Errorf("downloading snapshot from %q: %w", src.name, err))
	}
	var snap lead.Snapshot
	if err := json.Unmarshal(buf.Bytes(), &snap); err != nil {
		return nil, a.op.Fail(fmt.Errorf("decoding snapshot: %w", err))
	}
	if err := a.service.RestoreSnapshot(&snap); err != nil {
		return nil, a.op.Fail(err)
	}
	return &snap, nil
}

// Close logs the outcome of the operation and releases the store and the
// log file.
func (a *App) Close() error {
	var firstErr error
	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing store: %w", err)
	}

	elapsed := a.clock.Now().Sub(a.op.Started)
	if a.op.Succeeded() {
		a.logger.Debug("operation finished", "operation", a.op.Name, "elapsed", elapsed.String())
	} else {
		a.logger.Warn("operation failed", "operation", a.op.Name, "elapsed", elapsed.String())
	}

	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

// SetupKeys generates the encryption key pair for an encrypted store.
func SetupKeys(cfg *config.Config, passphrase string) error {
	if passphrase == "" {
		return ErrEmptyPassphrase
	}
	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	return enc.Setup(passphrase)
}

// KeysConfigured reports whether the key pair exists.
func KeysConfigured(cfg *config.Config) bool {
	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return false
	}
	return enc.IsConfigured()
}
