// Package fileutil writes files so readers never observe a partial write.
package fileutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrExists is returned by Create when the target exists and overwriting
// was not requested
var ErrExists = errors.New("file already exists")

// Options controls an atomic write
type Options struct {
	Perm      os.FileMode
	Overwrite bool
	MkdirAll  bool // Create missing parent directories
}

// Create streams the output of write into path via a temp file in the same
// directory, renamed into place only once write succeeds and the data is
// synced. On any failure the temp file is removed and path is untouched.
func Create(path string, opts Options, write func(io.Writer) error) error {
	if opts.Perm == 0 {
		opts.Perm = 0o644
	}
	if !opts.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrExists)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	dir := filepath.Dir(path)
	if opts.MkdirAll {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := write(tmp); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, opts.Perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	committed = true
	return nil
}

// WriteFileAtomic replaces path with data
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	return Create(path, Options{Perm: perm, Overwrite: true}, func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(data))
		return err
	})
}
