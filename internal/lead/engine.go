package lead

import (
	"slices"
	"strings"
	"time"
)

// DateCount is one day of the date-wise view.
type DateCount struct {
	Date  Date
	Count int
}

// ProductCount is one product of the product-wise view.
type ProductCount struct {
	Product string
	Count   int
}

// LabelCount is one label of the label-wise view.
type LabelCount struct {
	Label ColorLabel
	Count int
}

// DetailRow is one caller in a drill-down view.
type DetailRow struct {
	Name              string
	PhoneNumber       string
	ColorLabel        ColorLabel
	Product           string
	IncomingCallCount int
	DataSavedDate     time.Time
	// SavedOnly marks rows that come from the save date of a caller
	// with no calls yet.
	SavedOnly bool
}

// activity returns the tracked calls of r inside rng. fallback is set when
// r has no history at all and was saved inside rng, so callers added by
// hand still show up in date and product views.
func activity(r *CallerRecord, rng Range) (calls []CallEvent, fallback bool) {
	for _, c := range r.CallHistory {
		if c.Type.Tracked() && rng.Contains(c.Timestamp) {
			calls = append(calls, c)
		}
	}
	if len(r.CallHistory) == 0 && rng.Contains(r.DataSavedDate) {
		fallback = true
	}
	return calls, fallback
}

// bucketer counts distinct phone numbers per key, remembering the order in
// which keys were first seen.
type bucketer[K comparable] struct {
	order  []K
	phones map[K]map[string]struct{}
}

func newBucketer[K comparable]() *bucketer[K] {
	return &bucketer[K]{phones: make(map[K]map[string]struct{})}
}

func (b *bucketer[K]) add(key K, phone string) {
	set, ok := b.phones[key]
	if !ok {
		set = make(map[string]struct{})
		b.phones[key] = set
		b.order = append(b.order, key)
	}
	set[phone] = struct{}{}
}

func (b *bucketer[K]) each(fn func(key K, count int)) {
	for _, k := range b.order {
		fn(k, len(b.phones[k]))
	}
}

// DateBuckets counts distinct callers per day inside rng. Day boundaries
// are taken in loc.
func DateBuckets(records []CallerRecord, rng Range, loc *time.Location) []DateCount {
	b := newBucketer[Date]()
	for i := range records {
		r := &records[i]
		calls, fallback := activity(r, rng)
		for _, c := range calls {
			b.add(DateOf(c.Timestamp.In(loc)), r.PhoneNumber)
		}
		if fallback {
			b.add(DateOf(r.DataSavedDate.In(loc)), r.PhoneNumber)
		}
	}

	out := make([]DateCount, 0, len(b.order))
	b.each(func(d Date, n int) {
		out = append(out, DateCount{Date: d, Count: n})
	})
	slices.SortFunc(out, func(x, y DateCount) int { return x.Date.compare(y.Date) })
	return out
}

// ProductBuckets counts distinct callers per product over the last w days.
// Products appear in the order they are first encountered.
func ProductBuckets(records []CallerRecord, w Window, now time.Time) []ProductCount {
	rng := w.Range(now)
	b := newBucketer[string]()
	for i := range records {
		r := &records[i]
		calls, fallback := activity(r, rng)
		if len(calls) > 0 || fallback {
			b.add(r.Product, r.PhoneNumber)
		}
	}

	out := make([]ProductCount, 0, len(b.order))
	b.each(func(p string, n int) {
		out = append(out, ProductCount{Product: p, Count: n})
	})
	return out
}

// LabelBuckets counts distinct callers per color label over all time.
func LabelBuckets(records []CallerRecord) []LabelCount {
	b := newBucketer[ColorLabel]()
	for i := range records {
		b.add(records[i].ColorLabel, records[i].PhoneNumber)
	}

	out := make([]LabelCount, 0, len(b.order))
	b.each(func(l ColorLabel, n int) {
		out = append(out, LabelCount{Label: l, Count: n})
	})
	return out
}

// DateDetail lists the callers active on day.
func DateDetail(records []CallerRecord, day Date, loc *time.Location) []DetailRow {
	return detailRows(records, DayRange(day, day, loc), func(*CallerRecord) bool { return true })
}

// ProductDetail lists the callers for product active in the last w days.
func ProductDetail(records []CallerRecord, product string, w Window, now time.Time) []DetailRow {
	return detailRows(records, w.Range(now), func(r *CallerRecord) bool {
		return r.Product == product
	})
}

// LabelDetail lists every caller with label. Only incoming calls are
// counted here, unlike the other views.
func LabelDetail(records []CallerRecord, label ColorLabel) []DetailRow {
	var rows []DetailRow
	for i := range records {
		r := &records[i]
		if r.ColorLabel != label {
			continue
		}
		incoming := 0
		for _, c := range r.CallHistory {
			if c.Type == CallIncoming {
				incoming++
			}
		}
		rows = append(rows, newDetailRow(r, incoming, false))
	}
	sortDetailRows(rows)
	return rows
}

func detailRows(records []CallerRecord, rng Range, match func(*CallerRecord) bool) []DetailRow {
	var rows []DetailRow
	for i := range records {
		r := &records[i]
		if !match(r) {
			continue
		}
		calls, fallback := activity(r, rng)
		switch {
		case len(calls) > 0:
			rows = append(rows, newDetailRow(r, len(calls), false))
		case fallback:
			rows = append(rows, newDetailRow(r, 0, true))
		}
	}
	sortDetailRows(rows)
	return rows
}

func newDetailRow(r *CallerRecord, count int, savedOnly bool) DetailRow {
	return DetailRow{
		Name:              r.Name,
		PhoneNumber:       r.PhoneNumber,
		ColorLabel:        r.ColorLabel,
		Product:           r.Product,
		IncomingCallCount: count,
		DataSavedDate:     r.DataSavedDate,
		SavedOnly:         savedOnly,
	}
}

// sortDetailRows orders rows most recently saved first.
func sortDetailRows(rows []DetailRow) {
	slices.SortStableFunc(rows, func(a, b DetailRow) int {
		if c := b.DataSavedDate.Compare(a.DataSavedDate); c != 0 {
			return c
		}
		if c := strings.Compare(a.PhoneNumber, b.PhoneNumber); c != 0 {
			return c
		}
		return strings.Compare(a.Product, b.Product)
	})
}

// DueReminders returns the records whose reminder falls on today.
func DueReminders(records []CallerRecord, today Date) []CallerRecord {
	var due []CallerRecord
	for _, r := range records {
		if !r.RemindDate.IsZero() && r.RemindDate == today {
			due = append(due, r)
		}
	}
	return due
}
