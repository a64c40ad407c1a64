package kvstore

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// File is a Store keeping one JSON file per key inside a directory.
//
// Writes go to a temporary file first and take the key's place with a
// rename, so a crash mid-write leaves the previous value intact rather than
// a truncated file.
type File struct {
	dir string
}

// NewFile returns a file store rooted at dir. The directory is created on the
// first write.
func NewFile(dir string) *File {
	return &File{dir: dir}
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Get reads the value stored under key. A missing file means the key was
// never set.
func (f *File) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set writes value under key, replacing any previous value atomically.
func (f *File) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return err
	}
	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path(key))
}

var _ Store = (*File)(nil)
