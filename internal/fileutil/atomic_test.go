package fileutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func assertOnlyFile(t *testing.T, dir, name string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	for _, entry := range entries {
		if entry.Name() != name {
			t.Errorf("Unexpected file in directory: %s", entry.Name())
		}
	}
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "fivedraw.hcl")

	if err := WriteFileAtomic(testFile, []byte("table {}\n"), 0o600); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	data, err := os.ReadFile(testFile)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(data) != "table {}\n" {
		t.Errorf("File content mismatch: got %q", data)
	}

	info, err := os.Stat(testFile)
	if err != nil {
		t.Fatalf("Failed to stat file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("File permissions mismatch: got %o, want %o", info.Mode().Perm(), 0o600)
	}
	assertOnlyFile(t, tmpDir, "fivedraw.hcl")

	// overwrites are allowed
	if err := WriteFileAtomic(testFile, []byte("updated"), 0o600); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}
	data, _ = os.ReadFile(testFile)
	if string(data) != "updated" {
		t.Errorf("File content mismatch after overwrite: got %q", data)
	}
}

func TestCreateRefusesToClobber(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "fivedraw.hcl")
	if err := os.WriteFile(testFile, []byte("mine"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := Create(testFile, Options{}, func(w io.Writer) error {
		_, err := io.WriteString(w, "theirs")
		return err
	})
	if !errors.Is(err, ErrExists) {
		t.Fatalf("Expected ErrExists, got %v", err)
	}

	data, _ := os.ReadFile(testFile)
	if string(data) != "mine" {
		t.Errorf("existing file was modified: %q", data)
	}
}

func TestCreateFailedWriteLeavesNothing(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "summary.txt")
	boom := errors.New("boom")

	err := Create(testFile, Options{}, func(w io.Writer) error {
		io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected write error, got %v", err)
	}

	entries, _ := os.ReadDir(tmpDir)
	if len(entries) != 0 {
		t.Errorf("Expected empty directory, found %d entries", len(entries))
	}
}

func TestCreateMkdirAll(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "nested", "dir", "out.txt")

	err := Create(testFile, Options{MkdirAll: true}, func(w io.Writer) error {
		_, err := io.WriteString(w, "ok")
		return err
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := os.Stat(testFile); err != nil {
		t.Errorf("file not created: %v", err)
	}
}

func TestWriteFileAtomicInvalidDir(t *testing.T) {
	t.Parallel()

	if err := WriteFileAtomic("/nonexistent/dir/test.txt", []byte("data"), 0o644); err == nil {
		t.Error("Expected error when writing to non-existent directory")
	}
}
