package lead

import (
	"slices"
	"strings"
	"time"
)

// ExportRow is one caller on one day of a spreadsheet export.
type ExportRow struct {
	Date        Date
	Name        string
	PhoneNumber string
	Label       ColorLabel
	Model       string
	RemindDate  Date
	Description string
	// SortTime is the first tracked call of that day, or midnight when the
	// row comes from the save date.
	SortTime time.Time
}

// everything is the range used when exporting all records.
var everything = Range{
	From: time.Unix(0, 0).AddDate(-100, 0, 0),
	To:   time.Unix(0, 0).AddDate(1000, 0, 0),
}

// ExportRows emits one row per (day, phone, product) active in rng, or over
// all time when rng is nil. Rows are sorted by day, then by SortTime.
func ExportRows(records []CallerRecord, rng *Range, loc *time.Location) []ExportRow {
	window := everything
	if rng != nil {
		window = *rng
	}

	var rows []ExportRow
	for i := range records {
		r := &records[i]
		calls, fallback := activity(r, window)

		first := make(map[Date]time.Time)
		var days []Date
		for _, c := range calls {
			t := c.Timestamp.In(loc)
			d := DateOf(t)
			prev, ok := first[d]
			if !ok {
				days = append(days, d)
			}
			if !ok || t.Before(prev) {
				first[d] = t
			}
		}
		if fallback {
			d := DateOf(r.DataSavedDate.In(loc))
			days = append(days, d)
			first[d] = d.In(loc)
		}

		for _, d := range days {
			rows = append(rows, ExportRow{
				Date:        d,
				Name:        r.Name,
				PhoneNumber: r.PhoneNumber,
				Label:       r.ColorLabel,
				Model:       r.Product,
				RemindDate:  r.RemindDate,
				Description: r.Note,
				SortTime:    first[d],
			})
		}
	}

	slices.SortStableFunc(rows, func(a, b ExportRow) int {
		if c := a.Date.compare(b.Date); c != 0 {
			return c
		}
		if c := a.SortTime.Compare(b.SortTime); c != 0 {
			return c
		}
		if c := strings.Compare(a.PhoneNumber, b.PhoneNumber); c != 0 {
			return c
		}
		return strings.Compare(a.Model, b.Model)
	})
	return rows
}
