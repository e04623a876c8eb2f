package fs

import (
	"context"
	"errors"
	"os"
)

// OSFS is the concrete implementation of FS backed by the local OS filesystem.
type OSFS struct {
	retry RetryPolicy
}

// New returns an OSFS that never retries.
func New() *OSFS {
	return &OSFS{retry: NoRetry}
}

// NewWithRetry returns an OSFS that retries transient rename/remove errors.
func NewWithRetry(p RetryPolicy) *OSFS {
	return &OSFS{retry: p.normalized()}
}

func (o *OSFS) Stat(path string) (FileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}

	return FileInfo{
		Path:  path,
		Size:  st.Size(),
		MTime: st.ModTime(),
	}, nil
}

// Exists reports whether path exists. Symlinks are not followed, so a
// dangling link still occupies its name. Errors other than "not exist" are
// returned.
func (o *OSFS) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (o *OSFS) Rename(ctx context.Context, oldPath, newPath string) error {
	return retry(ctx, o.retry, "rename", func() error {
		return os.Rename(oldPath, newPath)
	})
}

func (o *OSFS) Remove(ctx context.Context, path string) error {
	return retry(ctx, o.retry, "remove", func() error {
		return os.Remove(path)
	})
}

// Create makes a new empty file and fails if path already exists.
func (o *OSFS) Create(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}
