package repo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkordes/leadbook/backend/internal/domain"
)

// FileKV stores each key as <dir>/<key>.json.
// Writes go to a temp file in the same directory and are renamed into place,
// so a crash mid-write never leaves a truncated blob behind.
type FileKV struct {
	dir string
}

// NewFileKV creates dir if needed and returns a FileKV rooted there.
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("repo.NewFileKV: %w", err)
	}
	return &FileKV{dir: dir}, nil
}

// Get reads the blob for key.
func (f *FileKV) Get(_ context.Context, key string) ([]byte, error) {
	path, err := f.path(key)
	if err != nil {
		return nil, fmt.Errorf("repo.FileKV.Get: %w", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("repo.FileKV.Get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.FileKV.Get: %w", err)
	}
	return b, nil
}

// Set atomically replaces the blob for key.
func (f *FileKV) Set(_ context.Context, key string, value []byte) error {
	path, err := f.path(key)
	if err != nil {
		return fmt.Errorf("repo.FileKV.Set: %w", err)
	}
	tmp, err := os.CreateTemp(f.dir, "."+key+"-*")
	if err != nil {
		return fmt.Errorf("repo.FileKV.Set: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("repo.FileKV.Set: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("repo.FileKV.Set: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("repo.FileKV.Set: rename: %w", err)
	}
	return nil
}

// path maps key to a file inside dir. Keys containing separators are refused.
func (f *FileKV) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}
