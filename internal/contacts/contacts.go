// Package contacts resolves caller display names from the device address
// book.
package contacts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"leadtrack/internal/config"
	"leadtrack/internal/lead"
)

// Contact is an address book entry with one or more numbers.
type Contact struct {
	Name         string   `json:"name"`
	PhoneNumbers []string `json:"phoneNumbers"`
}

// Directory is an address book indexed by lead.MatchKey. The first contact
// listing a number wins.
type Directory struct {
	countryCode string
	mu          sync.RWMutex
	byKey       map[string]string
}

var _ lead.Contacts = (*Directory)(nil)

// NewDirectory indexes contacts for lookup.
func NewDirectory(countryCode string, contacts ...Contact) *Directory {
	d := &Directory{countryCode: countryCode}
	d.Replace(contacts)
	return d
}

// Replace swaps the indexed contacts.
func (d *Directory) Replace(contacts []Contact) {
	byKey := make(map[string]string)
	for _, c := range contacts {
		if c.Name == "" {
			continue
		}
		for _, num := range c.PhoneNumbers {
			key := lead.MatchKey(num, d.countryCode)
			if key == "" {
				continue
			}
			if _, seen := byKey[key]; !seen {
				byKey[key] = c.Name
			}
		}
	}
	d.mu.Lock()
	d.byKey = byKey
	d.mu.Unlock()
}

// LookupName returns the contact name for phoneNumber or lead.UnknownContact.
func (d *Directory) LookupName(phoneNumber string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if name, ok := d.byKey[lead.MatchKey(phoneNumber, d.countryCode)]; ok {
		return name
	}
	return lead.UnknownContact
}

// Len returns the number of indexed phone numbers.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byKey)
}

// LoadFile reads a JSON array of contacts. A missing file yields no contacts.
func LoadFile(path string) ([]Contact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading contacts: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var contacts []Contact
	if err := json.Unmarshal(data, &contacts); err != nil {
		return nil, fmt.Errorf("decoding contacts %s: %w", path, err)
	}
	return contacts, nil
}

// NewContactsFromConfig creates a Contacts source based on the configuration
// type. File contacts are read once; a session sees a consistent book.
func NewContactsFromConfig(cfg config.ContactsConfig, countryCode string) (lead.Contacts, error) {
	switch cfg.Type {
	case "file", "":
		if cfg.Path == "" {
			return nil, fmt.Errorf("file contacts require path to be set")
		}
		contacts, err := LoadFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		return NewDirectory(countryCode, contacts...), nil
	case "memory":
		return NewDirectory(countryCode), nil
	default:
		return nil, fmt.Errorf("unknown contacts type: %s", cfg.Type)
	}
}
