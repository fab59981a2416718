package store

import (
	"database/sql"
	"fmt"
	"time"

	"leadtrack/internal/lead"
	"leadtrack/internal/store/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore keeps both collections in a SQLite database. Saves replace
// the stored collection inside one transaction.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens the database at path (or ":memory:") and brings its
// schema up to date.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// OpenConnection opens a SQLite connection with foreign keys enabled. A
// single connection is used so ":memory:" databases are shared by every
// query.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return db, nil
}

// CheckMigrations verifies the schema is at the binary's version.
func (s *SQLiteStore) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

func (s *SQLiteStore) LoadRecords() ([]lead.CallerRecord, error) {
	rows, err := s.db.Query(`
		SELECT phone_number, product, name, color_label, remind_date, note, data_saved_at, call_count
		FROM callers ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying callers: %w", err)
	}
	defer rows.Close()

	records := []lead.CallerRecord{}
	index := make(map[lead.Key]int)
	for rows.Next() {
		var (
			r                 lead.CallerRecord
			label, remind, ts string
		)
		if err := rows.Scan(&r.PhoneNumber, &r.Product, &r.Name, &label, &remind, &r.Note, &ts, &r.Count); err != nil {
			return nil, fmt.Errorf("scanning caller: %w", err)
		}
		if r.ColorLabel, err = lead.ParseColorLabel(label); err != nil {
			r.ColorLabel = lead.DefaultLabel
		}
		r.RemindDate, _ = lead.ParseDate(remind)
		r.DataSavedDate = parseTime(ts)
		r.CallHistory = []lead.CallEvent{}
		index[r.Key()] = len(records)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating callers: %w", err)
	}

	events, err := s.db.Query(`
		SELECT phone_number, product, occurred_at, duration, call_type
		FROM call_events ORDER BY phone_number, product, seq`)
	if err != nil {
		return nil, fmt.Errorf("querying call events: %w", err)
	}
	defer events.Close()

	for events.Next() {
		var (
			key          lead.Key
			ts, callType string
			e            lead.CallEvent
		)
		if err := events.Scan(&key.PhoneNumber, &key.Product, &ts, &e.Duration, &callType); err != nil {
			return nil, fmt.Errorf("scanning call event: %w", err)
		}
		i, ok := index[key]
		if !ok {
			continue
		}
		e.Timestamp = parseTime(ts)
		e.Type, _ = lead.ParseCallType(callType)
		records[i].CallHistory = append(records[i].CallHistory, e)
	}
	if err := events.Err(); err != nil {
		return nil, fmt.Errorf("iterating call events: %w", err)
	}

	return records, nil
}

func (s *SQLiteStore) SaveRecords(records []lead.CallerRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM call_events"); err != nil {
		return fmt.Errorf("clearing call events: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM callers"); err != nil {
		return fmt.Errorf("clearing callers: %w", err)
	}

	insertCaller, err := tx.Prepare(`
		INSERT INTO callers (phone_number, product, position, name, color_label, remind_date, note, data_saved_at, call_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing caller insert: %w", err)
	}
	defer insertCaller.Close()

	insertEvent, err := tx.Prepare(`
		INSERT INTO call_events (phone_number, product, seq, occurred_at, duration, call_type)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing call event insert: %w", err)
	}
	defer insertEvent.Close()

	for pos, r := range records {
		if _, err := insertCaller.Exec(r.PhoneNumber, r.Product, pos, r.Name, r.ColorLabel.String(),
			r.RemindDate.String(), r.Note, formatTime(r.DataSavedDate), r.Count); err != nil {
			return fmt.Errorf("inserting caller %s: %w", r.Key(), err)
		}
		for seq, e := range r.CallHistory {
			if _, err := insertEvent.Exec(r.PhoneNumber, r.Product, seq, formatTime(e.Timestamp),
				e.Duration, e.Type.String()); err != nil {
				return fmt.Errorf("inserting call event for %s: %w", r.Key(), err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing records: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadCatalog() ([]string, error) {
	rows, err := s.db.Query("SELECT name FROM products ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}
	return products, nil
}

func (s *SQLiteStore) SaveCatalog(products []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM products"); err != nil {
		return fmt.Errorf("clearing products: %w", err)
	}
	for pos, name := range products {
		if _, err := tx.Exec("INSERT INTO products (position, name) VALUES (?, ?)", pos, name); err != nil {
			return fmt.Errorf("inserting product %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing catalog: %w", err)
	}
	return nil
}

// BackupTo writes a consistent copy of the database to destPath.
func (s *SQLiteStore) BackupTo(destPath string) error {
	if _, err := s.db.Exec("VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// parseTime returns the zero time for anything that is not RFC 3339.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

var _ Store = (*SQLiteStore)(nil)
