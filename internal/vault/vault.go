// Package vault holds the remote storage backends used for snapshot backups
// and published exports.
package vault

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrNotFound is returned by Get when no object is stored under the key.
var ErrNotFound = errors.New("vault object not found")

// SnapshotKey is the key under which a device's snapshot is stored.
func SnapshotKey(deviceID string) string {
	return deviceID + "/snapshot.json"
}

// DatabaseKey is the key under which a device's sqlite database copy is
// stored.
func DatabaseKey(deviceID string) string {
	return deviceID + "/leadtrack.db"
}

// ExportKey is the key under which a published export file is stored.
func ExportKey(deviceID, filename string) string {
	return deviceID + "/exports/" + filename
}

// validateKey rejects keys that could escape a vault root.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("vault key must not be empty")
	}
	if strings.HasPrefix(key, "/") || path.Clean(key) != key {
		return fmt.Errorf("invalid vault key: %q", key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." {
			return fmt.Errorf("invalid vault key: %q", key)
		}
	}
	return nil
}
