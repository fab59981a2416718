package vault

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"leadtrack/internal/fs"
	"leadtrack/internal/lead"
)

// FileSystemVault stores objects as files under a root directory:
//
//	<root>/
//	  objects/
//	    <key>            (object data, key path segments become directories)
//	    <key>.version    (version sidecar)
type FileSystemVault struct {
	name       string
	root       string
	objectsDir string
}

// NewFileSystemVault creates a new filesystem vault rooted at the given path.
func NewFileSystemVault(name, root string) (*FileSystemVault, error) {
	objectsDir := filepath.Join(root, "objects")
	if err := os.MkdirAll(objectsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create objects directory: %w", err)
	}
	return &FileSystemVault{name: name, root: root, objectsDir: objectsDir}, nil
}

func (v *FileSystemVault) objectPath(key string) string {
	return filepath.Join(v.objectsDir, filepath.FromSlash(key))
}

// Put stores the object atomically, then records its version.
func (v *FileSystemVault) Put(key string, r io.Reader, size int64, version int64) error {
	if err := validateKey(key); err != nil {
		return err
	}
	dest := v.objectPath(key)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}
	if err := fs.WriteAtomic(dest, r, size); err != nil {
		return err
	}

	data := []byte(strconv.FormatInt(version, 10))
	return fs.WriteAtomic(dest+".version", bytes.NewReader(data), int64(len(data)))
}

func (v *FileSystemVault) Get(key string, w io.Writer) error {
	if err := validateKey(key); err != nil {
		return err
	}
	f, err := os.Open(v.objectPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return fmt.Errorf("failed to open object: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read object: %w", err)
	}
	return nil
}

// Version returns 0 if no version sidecar exists.
func (v *FileSystemVault) Version(key string) (int64, error) {
	if err := validateKey(key); err != nil {
		return 0, err
	}
	data, err := os.ReadFile(v.objectPath(key) + ".version")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading version file: %w", err)
	}
	version, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing version: %w", err)
	}
	return version, nil
}

// ValidateSetup verifies that the vault directories exist and are writable.
func (v *FileSystemVault) ValidateSetup() error {
	for _, dir := range []string{v.root, v.objectsDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("vault directory not accessible: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", dir)
		}
	}

	probe, err := os.CreateTemp(v.objectsDir, ".probe-*")
	if err != nil {
		return fmt.Errorf("vault not writable: %w", err)
	}
	probe.Close()
	return os.Remove(probe.Name())
}

var _ lead.Vault = (*FileSystemVault)(nil)
