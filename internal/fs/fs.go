// Package fs defines the filesystem abstraction used by backup-rotator.
// It provides the FS interface and the FileInfo type shared across the system.
package fs

import (
	"context"
	"time"
)

type FileInfo struct {
	Path  string
	Size  int64
	MTime time.Time
}

// FS is the set of operations the rotation engine performs on a namespace.
// Rename and Remove take a context because they may retry.
type FS interface {
	Stat(path string) (FileInfo, error)
	Exists(path string) (bool, error)
	Rename(ctx context.Context, oldPath, newPath string) error
	Remove(ctx context.Context, path string) error
	Create(path string) error
}
