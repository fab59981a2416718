package lead

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"
	"time"
)

// CallerRecord is one saved (phone number, product) lead.
type CallerRecord struct {
	Name          string      `json:"name" validate:"required"`
	PhoneNumber   string      `json:"phoneNumber" validate:"required,e164"`
	ColorLabel    ColorLabel  `json:"selectedColorLabel"`
	Product       string      `json:"selectedItemLabel" validate:"required"`
	RemindDate    Date        `json:"remindDate"`
	Note          string      `json:"note"`
	DataSavedDate time.Time   `json:"dataSavedDate"`
	CallHistory   []CallEvent `json:"callHistory"`
	Count         int         `json:"count"`
}

// CallEvent is one call touching a tracked number.
type CallEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Duration  int       `json:"duration"`
	Type      CallType  `json:"type"`
}

// CallLogEntry is an entry of the device call log.
type CallLogEntry struct {
	PhoneNumber string    `json:"phoneNumber"`
	Timestamp   time.Time `json:"timestamp"`
	Duration    int       `json:"duration"`
	Type        CallType  `json:"type"`
}

// Key is the natural identity of a CallerRecord.
type Key struct {
	PhoneNumber string
	Product     string
}

func (r *CallerRecord) Key() Key {
	return Key{PhoneNumber: r.PhoneNumber, Product: r.Product}
}

func (k Key) String() string { return k.PhoneNumber + "/" + k.Product }

// Event converts a call-log entry into a history event.
func (e CallLogEntry) Event() CallEvent {
	return CallEvent{Timestamp: e.Timestamp, Duration: e.Duration, Type: e.Type}
}

// Clone returns a deep copy of the collection so callers can mutate it
// without touching the original.
func Clone(records []CallerRecord) []CallerRecord {
	if records == nil {
		return nil
	}
	out := make([]CallerRecord, len(records))
	for i, r := range records {
		out[i] = r
		out[i].CallHistory = slices.Clone(r.CallHistory)
	}
	return out
}

// UnmarshalJSON accepts the loosely typed documents written by older
// clients: timestamps as RFC 3339 strings or epoch milliseconds, and
// unknown labels. Bad timestamps decode to the zero time.
func (r *CallerRecord) UnmarshalJSON(b []byte) error {
	type plain CallerRecord
	aux := struct {
		*plain
		ColorLabel    string          `json:"selectedColorLabel"`
		DataSavedDate json.RawMessage `json:"dataSavedDate"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	label, err := ParseColorLabel(aux.ColorLabel)
	if err != nil {
		label = DefaultLabel
	}
	r.ColorLabel = label
	r.DataSavedDate = parseInstant(aux.DataSavedDate)
	return nil
}

func (e *CallEvent) UnmarshalJSON(b []byte) error {
	var aux struct {
		Timestamp json.RawMessage `json:"timestamp"`
		Duration  json.RawMessage `json:"duration"`
		Type      string          `json:"type"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	e.Timestamp = parseInstant(aux.Timestamp)
	e.Duration = parseDuration(aux.Duration)
	e.Type, _ = ParseCallType(aux.Type)
	return nil
}

func (e *CallLogEntry) UnmarshalJSON(b []byte) error {
	var aux struct {
		PhoneNumber string          `json:"phoneNumber"`
		Timestamp   json.RawMessage `json:"timestamp"`
		Duration    json.RawMessage `json:"duration"`
		Type        string          `json:"type"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	e.PhoneNumber = aux.PhoneNumber
	e.Timestamp = parseInstant(aux.Timestamp)
	e.Duration = parseDuration(aux.Duration)
	e.Type, _ = ParseCallType(aux.Type)
	return nil
}

// legacyInstantLayout is the device call-log format written by older
// clients, in device-local time.
const legacyInstantLayout = "02-Jan-2006 15:04:05"

// parseInstant decodes an RFC 3339 string, an epoch-milliseconds number
// (bare or quoted) or a legacy dd-MMM-yyyy HH:mm:ss string. Anything else
// yields the zero time.
func parseInstant(raw json.RawMessage) time.Time {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return time.Time{}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms)
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.ParseInLocation(legacyInstantLayout, s, time.Local); err == nil {
		return t
	}
	return time.Time{}
}

func parseDuration(raw json.RawMessage) int {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
