package testutil

import (
	"time"

	"leadtrack/internal/lead"
)

// RecordOption adjusts a record built by NewRecord.
type RecordOption func(*lead.CallerRecord)

// NewRecord builds a Red record saved at 2024-05-01 09:00 UTC with an empty
// history.
func NewRecord(name, phone, product string, opts ...RecordOption) lead.CallerRecord {
	r := lead.CallerRecord{
		Name:          name,
		PhoneNumber:   phone,
		ColorLabel:    lead.LabelRed,
		Product:       product,
		DataSavedDate: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		CallHistory:   []lead.CallEvent{},
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func WithLabel(l lead.ColorLabel) RecordOption {
	return func(r *lead.CallerRecord) { r.ColorLabel = l }
}

func WithSavedAt(t time.Time) RecordOption {
	return func(r *lead.CallerRecord) { r.DataSavedDate = t }
}

func WithRemindDate(d lead.Date) RecordOption {
	return func(r *lead.CallerRecord) { r.RemindDate = d }
}

func WithNote(note string) RecordOption {
	return func(r *lead.CallerRecord) { r.Note = note }
}

// WithCalls sets the history and keeps Count in step with it.
func WithCalls(events ...lead.CallEvent) RecordOption {
	return func(r *lead.CallerRecord) {
		r.CallHistory = append([]lead.CallEvent{}, events...)
		r.Count = len(r.CallHistory)
	}
}

// Call builds a 30 second call event.
func Call(typ lead.CallType, at time.Time) lead.CallEvent {
	return lead.CallEvent{Timestamp: at, Duration: 30, Type: typ}
}

// LogEntry builds a 30 second call-log entry.
func LogEntry(phone string, typ lead.CallType, at time.Time) lead.CallLogEntry {
	return lead.CallLogEntry{PhoneNumber: phone, Timestamp: at, Duration: 30, Type: typ}
}

// Day builds a lead.Date.
func Day(y int, m time.Month, d int) lead.Date {
	return lead.Date{Year: y, Month: m, Day: d}
}

// At builds a UTC instant.
func At(y int, m time.Month, d, hour, min int) time.Time {
	return time.Date(y, m, d, hour, min, 0, 0, time.UTC)
}
