package contacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadtrack/internal/config"
	"leadtrack/internal/lead"
)

func TestDirectory_LookupName(t *testing.T) {
	d := NewDirectory("91",
		Contact{Name: "Asha", PhoneNumbers: []string{"98765 43210", "+91 91234 56780"}},
		Contact{Name: "Ravi", PhoneNumbers: []string{"+919876543210"}},
		Contact{Name: "Front desk", PhoneNumbers: []string{"1800 11 22"}},
		Contact{Name: "", PhoneNumbers: []string{"9000000000"}},
	)

	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{name: "normalized match", phone: "+919876543210", want: "Asha"},
		{name: "bare ten digits", phone: "9123456780", want: "Asha"},
		{name: "short code whitespace stripped", phone: "18001122", want: "Front desk"},
		{name: "nameless contact ignored", phone: "9000000000", want: lead.UnknownContact},
		{name: "unknown", phone: "+911111111111", want: lead.UnknownContact},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.LookupName(tt.phone))
		})
	}
}

func TestDirectory_Replace(t *testing.T) {
	d := NewDirectory("91", Contact{Name: "Asha", PhoneNumbers: []string{"9876543210"}})
	assert.Equal(t, 1, d.Len())

	d.Replace([]Contact{{Name: "Meera", PhoneNumbers: []string{"9876543210"}}})
	assert.Equal(t, "Meera", d.LookupName("+919876543210"))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "contacts.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"Asha","phoneNumbers":["9876543210"]}]`), 0644))
	contacts, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []Contact{{Name: "Asha", PhoneNumbers: []string{"9876543210"}}}, contacts)

	contacts, err = LoadFile(filepath.Join(dir, "absent.json"))
	require.NoError(t, err)
	assert.Empty(t, contacts)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = LoadFile(bad)
	assert.Error(t, err)
}

func TestNewContactsFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"Asha","phoneNumbers":["9876543210"]}]`), 0644))

	c, err := NewContactsFromConfig(config.ContactsConfig{Type: "file", Path: path}, "91")
	require.NoError(t, err)
	assert.Equal(t, "Asha", c.LookupName("+919876543210"))

	c, err = NewContactsFromConfig(config.ContactsConfig{Type: "memory"}, "91")
	require.NoError(t, err)
	assert.Equal(t, lead.UnknownContact, c.LookupName("+919876543210"))

	_, err = NewContactsFromConfig(config.ContactsConfig{Type: "file"}, "91")
	assert.Error(t, err)

	_, err = NewContactsFromConfig(config.ContactsConfig{Type: "ldap"}, "91")
	assert.Error(t, err)
}
