package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// FileInfo describes a file in a Dir.
type FileInfo struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// Dir is a flat directory of generated files, filtered by glob patterns
// matched against the basename (e.g. "*.xlsx").
type Dir struct {
	root     string
	patterns []string
}

// NewDir returns a Dir rooted at root. Blank patterns and patterns
// starting with '#' are skipped; no patterns means every regular file.
func NewDir(root string, patterns ...string) *Dir {
	var kept []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		kept = append(kept, p)
	}
	return &Dir{root: root, patterns: kept}
}

// Root returns the directory path.
func (d *Dir) Root() string { return d.root }

// Ensure creates the directory if it does not exist.
func (d *Dir) Ensure() error {
	if err := os.MkdirAll(d.root, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", d.root, err)
	}
	return nil
}

// Match reports whether name is one of the files this Dir manages.
func (d *Dir) Match(name string) bool {
	if len(d.patterns) == 0 {
		return true
	}
	base := filepath.Base(name)
	for _, p := range d.patterns {
		// A bad pattern never matches.
		if ok, err := filepath.Match(p, base); err == nil && ok {
			return true
		}
	}
	return false
}

// List returns the matching regular files, newest modification first.
// A missing directory lists as empty.
func (d *Dir) List() ([]FileInfo, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !d.Match(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		files = append(files, FileInfo{
			Name:    entry.Name(),
			Path:    filepath.Join(d.root, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	slices.SortFunc(files, func(a, b FileInfo) int {
		if c := b.ModTime.Compare(a.ModTime); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return files, nil
}

// Remove deletes one managed file. name must be a bare file name.
func (d *Dir) Remove(name string) error {
	if name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("invalid file name: %q", name)
	}
	if !d.Match(name) {
		return fmt.Errorf("not a managed file: %q", name)
	}
	if err := os.Remove(filepath.Join(d.root, name)); err != nil {
		return fmt.Errorf("removing %s: %w", name, err)
	}
	return nil
}

// RemoveAll deletes every managed file and returns how many were removed.
func (d *Dir) RemoveAll() (int, error) {
	files, err := d.List()
	if err != nil {
		return 0, err
	}
	for i, f := range files {
		if err := os.Remove(f.Path); err != nil {
			return i, fmt.Errorf("removing %s: %w", f.Name, err)
		}
	}
	return len(files), nil
}
