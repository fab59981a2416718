package lead

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultRecentLimit is how many call-log entries the recent-calls view shows.
const DefaultRecentLimit = 50

// Options tunes a Service. Zero values select the defaults.
type Options struct {
	Location    *time.Location
	CountryCode string
	RecentLimit int
}

// Service runs the aggregation engine against the stores and device
// collaborators. Every read-modify-write of the stores holds mu, so only
// one save is outstanding at a time.
type Service struct {
	records  RecordStore
	catalog  CatalogStore
	callLog  CallLog
	contacts Contacts
	logger   Logger
	clock    Clock
	validate *validator.Validate

	loc         *time.Location
	countryCode string
	recentLimit int

	mu sync.Mutex
}

// NewService creates a Service. callLog and contacts may be nil when the
// device bridges are unavailable; the views that need them return nothing.
func NewService(records RecordStore, catalog CatalogStore, callLog CallLog, contacts Contacts, logger Logger, clock Clock, opts Options) *Service {
	if logger == nil {
		logger = NewNopLogger()
	}
	if clock == nil {
		clock = RealClock{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.CountryCode == "" {
		opts.CountryCode = DefaultCountryCode
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = DefaultRecentLimit
	}
	return &Service{
		records:     records,
		catalog:     catalog,
		callLog:     callLog,
		contacts:    contacts,
		logger:      logger,
		clock:       clock,
		validate:    validator.New(),
		loc:         opts.Location,
		countryCode: opts.CountryCode,
		recentLimit: opts.RecentLimit,
	}
}

// Location returns the location used for day boundaries.
func (s *Service) Location() *time.Location { return s.loc }

// Today returns the current calendar day in the service location.
func (s *Service) Today() Date { return DateOf(s.clock.Now().In(s.loc)) }

// snapshot loads the collection for a read-only view. A read failure is
// logged and treated as an empty collection.
func (s *Service) snapshot() []CallerRecord {
	records, err := s.records.LoadRecords()
	if err != nil {
		s.logger.Warn("loading records failed, showing no data", "error", err)
		return nil
	}
	return records
}

// Records returns the full collection.
func (s *Service) Records() ([]CallerRecord, error) {
	records, err := s.records.LoadRecords()
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	return records, nil
}

// FindRecords returns every record for the given phone number.
func (s *Service) FindRecords(rawPhone string) ([]CallerRecord, error) {
	phone, err := NormalizePhone(rawPhone, s.countryCode)
	if err != nil {
		return nil, err
	}
	records, err := s.Records()
	if err != nil {
		return nil, err
	}
	var found []CallerRecord
	for _, r := range records {
		if r.PhoneNumber == phone {
			found = append(found, r)
		}
	}
	return found, nil
}

// DateView buckets distinct callers per day over [start, end].
func (s *Service) DateView(start, end Date) []DateCount {
	return DateBuckets(s.snapshot(), DayRange(start, end, s.loc), s.loc)
}

// DateDetailView lists callers active on day.
func (s *Service) DateDetailView(day Date) []DetailRow {
	return DateDetail(s.snapshot(), day, s.loc)
}

// ProductView buckets distinct callers per product over the last w days.
func (s *Service) ProductView(w Window) []ProductCount {
	return ProductBuckets(s.snapshot(), w, s.clock.Now())
}

// ProductDetailView lists callers for product over the last w days.
func (s *Service) ProductDetailView(product string, w Window) []DetailRow {
	return ProductDetail(s.snapshot(), product, w, s.clock.Now())
}

// LabelView counts distinct callers per color label.
func (s *Service) LabelView() []LabelCount {
	return LabelBuckets(s.snapshot())
}

// LabelDetailView lists callers with label.
func (s *Service) LabelDetailView(label ColorLabel) []DetailRow {
	return LabelDetail(s.snapshot(), label)
}

// Reminders returns the records with a reminder on day.
func (s *Service) Reminders(day Date) []CallerRecord {
	return DueReminders(s.snapshot(), day)
}

// ExportRange builds export rows for [start, end].
func (s *Service) ExportRange(start, end Date) []ExportRow {
	rng := DayRange(start, end, s.loc)
	return ExportRows(s.snapshot(), &rng, s.loc)
}

// ExportAll builds export rows over all time.
func (s *Service) ExportAll() []ExportRow {
	return ExportRows(s.snapshot(), nil, s.loc)
}

// RecordForm carries the user-editable fields of a caller record.
type RecordForm struct {
	Name        string
	PhoneNumber string
	ColorLabel  ColorLabel
	Product     string
	RemindDate  Date
	Note        string
}

// AddRecord creates a record from form. The phone number is normalized and
// the product must be in the catalog.
func (s *Service) AddRecord(form RecordForm) (*CallerRecord, error) {
	phone, err := NormalizePhone(form.PhoneNumber, s.countryCode)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireProduct(form.Product); err != nil {
		return nil, err
	}

	records, err := s.records.LoadRecords()
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}

	rec := CallerRecord{
		Name:          form.Name,
		PhoneNumber:   phone,
		ColorLabel:    form.ColorLabel,
		Product:       form.Product,
		RemindDate:    form.RemindDate,
		Note:          form.Note,
		DataSavedDate: s.clock.Now(),
		CallHistory:   []CallEvent{},
	}
	if err := s.validateRecord(&rec); err != nil {
		return nil, err
	}
	if indexOf(records, rec.Key()) >= 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateRecord, rec.Key())
	}

	updated := append(Clone(records), rec)
	if err := s.records.SaveRecords(updated); err != nil {
		return nil, fmt.Errorf("saving records: %w", err)
	}

	s.logger.Info("record added", "phone", rec.PhoneNumber, "product", rec.Product)
	return &rec, nil
}

// UpdateRecord edits the label, product, reminder and note of the record
// identified by key. Name, save date and history are kept.
func (s *Service) UpdateRecord(key Key, form RecordForm) (*CallerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.records.LoadRecords()
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}

	i := indexOf(records, key)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, key)
	}

	updated := Clone(records)
	rec := &updated[i]
	if form.Product != "" && form.Product != rec.Product {
		if err := s.requireProduct(form.Product); err != nil {
			return nil, err
		}
		newKey := Key{PhoneNumber: rec.PhoneNumber, Product: form.Product}
		if indexOf(records, newKey) >= 0 {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRecord, newKey)
		}
		rec.Product = form.Product
	}
	rec.ColorLabel = form.ColorLabel
	rec.RemindDate = form.RemindDate
	rec.Note = form.Note
	if err := s.validateRecord(rec); err != nil {
		return nil, err
	}

	if err := s.records.SaveRecords(updated); err != nil {
		return nil, fmt.Errorf("saving records: %w", err)
	}

	s.logger.Info("record updated", "phone", rec.PhoneNumber, "product", rec.Product)
	out := *rec
	return &out, nil
}

// MergeCallLog folds the full device call log into the stored histories.
// It returns the number of records whose history changed. An unreadable
// call log is logged and merges nothing.
func (s *Service) MergeCallLog() (int, error) {
	if s.callLog == nil {
		return 0, nil
	}
	entries, err := s.callLog.FetchAll()
	if err != nil {
		s.logger.Warn("reading call log failed", "error", err)
		return 0, nil
	}
	return s.Merge(entries)
}

// Merge folds the given call-log entries into the stored histories.
func (s *Service) Merge(entries []CallLogEntry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.records.LoadRecords()
	if err != nil {
		return 0, fmt.Errorf("loading records: %w", err)
	}

	merged, changed := MergeCallHistory(records, entries, s.countryCode)
	if !changed {
		s.logger.Debug("merge found nothing new", "entries", len(entries))
		return 0, nil
	}

	n := 0
	for i := range merged {
		if merged[i].Count != records[i].Count || len(merged[i].CallHistory) != len(records[i].CallHistory) {
			n++
		}
	}

	if err := s.records.SaveRecords(merged); err != nil {
		return 0, fmt.Errorf("saving records: %w", err)
	}

	s.logger.Info("merged call log", "entries", len(entries), "records_changed", n)
	return n, nil
}

// RecentCall is a call-log entry joined with its contact name.
type RecentCall struct {
	CallLogEntry
	Name string
	// Tracked is set when a record exists for the number.
	Tracked bool
}

// RecentCalls returns the newest call-log entries. limit <= 0 uses the
// configured default.
func (s *Service) RecentCalls(limit int) []RecentCall {
	if s.callLog == nil {
		return nil
	}
	if limit <= 0 {
		limit = s.recentLimit
	}
	entries, err := s.callLog.FetchRecent(limit)
	if err != nil {
		s.logger.Warn("reading call log failed", "error", err)
		return nil
	}

	tracked := make(map[string]bool)
	for _, r := range s.snapshot() {
		tracked[r.PhoneNumber] = true
	}

	calls := make([]RecentCall, 0, len(entries))
	for _, e := range entries {
		name := UnknownContact
		if s.contacts != nil {
			name = s.contacts.LookupName(e.PhoneNumber)
		}
		calls = append(calls, RecentCall{
			CallLogEntry: e,
			Name:         name,
			Tracked:      tracked[MatchKey(e.PhoneNumber, s.countryCode)],
		})
	}
	return calls
}

// ClearRecords empties the record store.
func (s *Service) ClearRecords() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.records.SaveRecords([]CallerRecord{}); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}
	s.logger.Info("records cleared")
	return nil
}

func (s *Service) validateRecord(r *CallerRecord) error {
	if !r.ColorLabel.Valid() {
		return fmt.Errorf("%w: color label %s", ErrInvalidRecord, r.ColorLabel)
	}
	if err := s.validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed %q", ErrInvalidRecord, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}

func indexOf(records []CallerRecord, key Key) int {
	for i := range records {
		if records[i].Key() == key {
			return i
		}
	}
	return -1
}
