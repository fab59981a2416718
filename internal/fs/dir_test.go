package fs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTestFile(t *testing.T, dir, name string, mtime time.Time) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(name), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}
}

func TestDir_Match(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		file     string
		want     bool
	}{
		{name: "glob matches extension", patterns: []string{"*.xlsx"}, file: "a.xlsx", want: true},
		{name: "glob rejects other extension", patterns: []string{"*.xlsx"}, file: "a.csv", want: false},
		{name: "no patterns matches everything", file: "anything", want: true},
		{name: "comments and blanks skipped", patterns: []string{"", "# x", "*.csv"}, file: "a.xlsx", want: false},
		{name: "bad pattern never matches", patterns: []string{"[", "*.csv"}, file: "b.csv", want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := NewDir(t.TempDir(), tt.patterns...)
			if got := d.Match(tt.file); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.file, got, tt.want)
			}
		})
	}
}

func TestDir_List(t *testing.T) {
	root := t.TempDir()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	writeTestFile(t, root, "old.xlsx", base)
	writeTestFile(t, root, "new.xlsx", base.Add(time.Hour))
	writeTestFile(t, root, "notes.txt", base.Add(2*time.Hour))
	if err := os.Mkdir(filepath.Join(root, "sub.xlsx"), 0755); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}

	files, err := NewDir(root, "*.xlsx").List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("List() returned %d files, want 2", len(files))
	}
	if files[0].Name != "new.xlsx" || files[1].Name != "old.xlsx" {
		t.Errorf("List() order = [%s %s], want [new.xlsx old.xlsx]", files[0].Name, files[1].Name)
	}
}

func TestDir_List_MissingDirectory(t *testing.T) {
	files, err := NewDir(filepath.Join(t.TempDir(), "missing")).List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(files) != 0 {
		t.Errorf("List() = %v, want empty", files)
	}
}

func TestDir_Remove(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "a.xlsx", time.Now())
	writeTestFile(t, root, "keep.txt", time.Now())
	d := NewDir(root, "*.xlsx")

	t.Run("removes managed file", func(t *testing.T) {
		if err := d.Remove("a.xlsx"); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(root, "a.xlsx")); !os.IsNotExist(err) {
			t.Errorf("a.xlsx still exists")
		}
	})

	t.Run("rejects unmanaged file", func(t *testing.T) {
		if err := d.Remove("keep.txt"); err == nil {
			t.Error("Remove() expected error for unmanaged file")
		}
	})

	t.Run("rejects path traversal", func(t *testing.T) {
		err := d.Remove("../x.xlsx")
		if err == nil || !strings.Contains(err.Error(), "invalid file name") {
			t.Errorf("Remove() error = %v, want invalid file name", err)
		}
	})
}

func TestDir_RemoveAll(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "a.xlsx", time.Now())
	writeTestFile(t, root, "b.xlsx", time.Now())
	writeTestFile(t, root, "keep.txt", time.Now())

	n, err := NewDir(root, "*.xlsx").RemoveAll()
	if err != nil {
		t.Fatalf("RemoveAll() error = %v", err)
	}
	if n != 2 {
		t.Errorf("RemoveAll() = %d, want 2", n)
	}
	if _, err := os.Stat(filepath.Join(root, "keep.txt")); err != nil {
		t.Errorf("keep.txt was removed: %v", err)
	}
}

func TestWriteAtomic(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.json")

	t.Run("writes content", func(t *testing.T) {
		if err := WriteAtomic(dest, strings.NewReader("hello"), 5); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}
		got, _ := os.ReadFile(dest)
		if string(got) != "hello" {
			t.Errorf("content = %q, want %q", got, "hello")
		}
	})

	t.Run("size mismatch keeps previous content", func(t *testing.T) {
		if err := WriteAtomic(dest, strings.NewReader("bye"), 10); err == nil {
			t.Fatal("WriteAtomic() expected size mismatch error")
		}
		got, _ := os.ReadFile(dest)
		if string(got) != "hello" {
			t.Errorf("content = %q, want %q", got, "hello")
		}
		entries, _ := os.ReadDir(filepath.Dir(dest))
		if len(entries) != 1 {
			t.Errorf("temp file left behind: %d entries", len(entries))
		}
	})
}
