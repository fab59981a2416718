// Package calllog reads the device call log that the merge and the recent
// calls screen consume.
package calllog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"leadtrack/internal/config"
	"leadtrack/internal/lead"
)

// FileCallLog reads a JSON array of call-log entries exported from the
// device. The file is re-read on every fetch so a running daemon sees new
// calls.
type FileCallLog struct {
	path string
}

var _ lead.CallLog = (*FileCallLog)(nil)

func NewFileCallLog(path string) *FileCallLog {
	return &FileCallLog{path: path}
}

// FetchAll returns every entry, newest first. A missing file is an empty log.
func (c *FileCallLog) FetchAll() ([]lead.CallLogEntry, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []lead.CallLogEntry{}, nil
		}
		return nil, fmt.Errorf("reading call log: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []lead.CallLogEntry{}, nil
	}

	var entries []lead.CallLogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding call log %s: %w", c.path, err)
	}
	sortNewestFirst(entries)
	return entries, nil
}

// FetchRecent returns at most limit entries, newest first.
// A non-positive limit returns everything.
func (c *FileCallLog) FetchRecent(limit int) ([]lead.CallLogEntry, error) {
	entries, err := c.FetchAll()
	if err != nil {
		return nil, err
	}
	return truncate(entries, limit), nil
}

// MemoryCallLog is a call log held in memory. Safe for concurrent use.
type MemoryCallLog struct {
	mu      sync.RWMutex
	entries []lead.CallLogEntry
}

var _ lead.CallLog = (*MemoryCallLog)(nil)

func NewMemoryCallLog(entries ...lead.CallLogEntry) *MemoryCallLog {
	return &MemoryCallLog{entries: slices.Clone(entries)}
}

// Append records new calls, as the device would when a call ends.
func (c *MemoryCallLog) Append(entries ...lead.CallLogEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entries...)
}

func (c *MemoryCallLog) FetchAll() ([]lead.CallLogEntry, error) {
	c.mu.RLock()
	entries := slices.Clone(c.entries)
	c.mu.RUnlock()
	if entries == nil {
		entries = []lead.CallLogEntry{}
	}
	sortNewestFirst(entries)
	return entries, nil
}

func (c *MemoryCallLog) FetchRecent(limit int) ([]lead.CallLogEntry, error) {
	entries, _ := c.FetchAll()
	return truncate(entries, limit), nil
}

// NewCallLogFromConfig creates a CallLog based on the configuration type.
func NewCallLogFromConfig(cfg config.CallLogConfig) (lead.CallLog, error) {
	switch cfg.Type {
	case "file", "":
		if cfg.Path == "" {
			return nil, fmt.Errorf("file call log requires path to be set")
		}
		return NewFileCallLog(cfg.Path), nil
	case "memory":
		return NewMemoryCallLog(), nil
	default:
		return nil, fmt.Errorf("unknown call log type: %s", cfg.Type)
	}
}

func sortNewestFirst(entries []lead.CallLogEntry) {
	slices.SortStableFunc(entries, func(a, b lead.CallLogEntry) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
}

func truncate(entries []lead.CallLogEntry, limit int) []lead.CallLogEntry {
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}
