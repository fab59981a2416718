package vault

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestMemoryVault_PutGet(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		data    string
		size    int64
		wantErr bool
	}{
		{name: "snapshot", key: SnapshotKey("phone-1"), data: `{"records":[]}`, size: 14},
		{name: "size mismatch", key: "phone-1/snapshot.json", data: "abc", size: 10, wantErr: true},
		{name: "empty key", key: "", data: "abc", size: 3, wantErr: true},
		{name: "traversal key", key: "../escape", data: "abc", size: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewMemoryVault("test")
			err := v.Put(tt.key, strings.NewReader(tt.data), tt.size, 7)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Put() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if v.Keys() != 0 {
					t.Errorf("Keys() = %d after failed Put, want 0", v.Keys())
				}
				return
			}

			var buf bytes.Buffer
			if err := v.Get(tt.key, &buf); err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if buf.String() != tt.data {
				t.Errorf("Get() = %q, want %q", buf.String(), tt.data)
			}
			if got, _ := v.Version(tt.key); got != 7 {
				t.Errorf("Version() = %d, want 7", got)
			}
		})
	}
}

func TestMemoryVault_Missing(t *testing.T) {
	v := NewMemoryVault("test")

	var buf bytes.Buffer
	if err := v.Get("phone-1/snapshot.json", &buf); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want %v", err, ErrNotFound)
	}
	got, err := v.Version("phone-1/snapshot.json")
	if err != nil || got != 0 {
		t.Errorf("Version() = %d, %v, want 0, nil", got, err)
	}
}

func TestMemoryVault_Overwrite(t *testing.T) {
	v := NewMemoryVault("test")
	key := SnapshotKey("phone-1")

	if err := v.Put(key, strings.NewReader("one"), 3, 1); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := v.Put(key, strings.NewReader("three"), 5, 2); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	var buf bytes.Buffer
	if err := v.Get(key, &buf); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if buf.String() != "three" {
		t.Errorf("Get() = %q, want %q", buf.String(), "three")
	}
	if got, _ := v.Version(key); got != 2 {
		t.Errorf("Version() = %d, want 2", got)
	}
}

func TestKeys(t *testing.T) {
	if got := SnapshotKey("dev"); got != "dev/snapshot.json" {
		t.Errorf("SnapshotKey() = %q", got)
	}
	if got := DatabaseKey("dev"); got != "dev/leadtrack.db" {
		t.Errorf("DatabaseKey() = %q", got)
	}
	if got := ExportKey("dev", "allUsersCallData.xlsx"); got != "dev/exports/allUsersCallData.xlsx" {
		t.Errorf("ExportKey() = %q", got)
	}
}
