package testutil

import (
	"slices"

	"leadtrack/internal/lead"
)

// StubCallLog returns Entries as given, or Err.
type StubCallLog struct {
	Entries []lead.CallLogEntry
	Err     error
	Fetches int
}

var _ lead.CallLog = (*StubCallLog)(nil)

func NewStubCallLog(entries ...lead.CallLogEntry) *StubCallLog {
	return &StubCallLog{Entries: entries}
}

func (c *StubCallLog) FetchAll() ([]lead.CallLogEntry, error) {
	c.Fetches++
	if c.Err != nil {
		return nil, c.Err
	}
	return slices.Clone(c.Entries), nil
}

func (c *StubCallLog) FetchRecent(limit int) ([]lead.CallLogEntry, error) {
	entries, err := c.FetchAll()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// StubContacts maps exact phone strings to names.
type StubContacts map[string]string

var _ lead.Contacts = StubContacts(nil)

func (c StubContacts) LookupName(phone string) string {
	if name, ok := c[phone]; ok {
		return name
	}
	return lead.UnknownContact
}
