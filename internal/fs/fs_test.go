package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFS_Exists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	f := New()

	ok, err := f.Exists(path)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.Exists(filepath.Join(dir, "absent.txt"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOSFS_ExistsCountsDanglingSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need extra privileges on windows")
	}
	dir := t.TempDir()
	link := filepath.Join(dir, "example.txt.1~")
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), link))

	ok, err := New().Exists(link)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOSFS_RenameAndRemove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "a.txt.1~")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o600))

	f := New()
	ctx := context.Background()

	require.NoError(t, f.Rename(ctx, src, dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	require.NoError(t, f.Remove(ctx, dst))
	_, err = os.Stat(dst)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	err = f.Remove(ctx, dst)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOSFS_CreateIsExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.txt")
	f := New()

	require.NoError(t, f.Create(path))
	info, err := f.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size)

	err = f.Create(path)
	assert.ErrorIs(t, err, os.ErrExist)
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	fast := RetryPolicy{Attempts: 3, Backoff: time.Millisecond}

	t.Run("permanent error is not retried", func(t *testing.T) {
		calls := 0
		err := retry(ctx, fast, "rename", func() error {
			calls++
			return os.ErrPermission
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.ErrorIs(t, err, os.ErrPermission)
	})

	t.Run("transient error is retried until success", func(t *testing.T) {
		calls := 0
		err := retry(ctx, fast, "rename", func() error {
			calls++
			if calls < 3 {
				return fmt.Errorf("wrapped: %w", syscall.EBUSY)
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("transient error exhausts attempts", func(t *testing.T) {
		calls := 0
		err := retry(ctx, fast, "remove", func() error {
			calls++
			return syscall.EAGAIN
		})
		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.ErrorIs(t, err, syscall.EAGAIN)
	})

	t.Run("no retry policy runs once", func(t *testing.T) {
		calls := 0
		err := retry(ctx, NoRetry, "remove", func() error {
			calls++
			return syscall.EAGAIN
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled context stops before the call", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := retry(cctx, fast, "rename", func() error {
			t.Fatal("fn must not run")
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(&os.LinkError{Op: "rename", Old: "a", New: "b", Err: syscall.EBUSY}))
	assert.True(t, IsTransient(fmt.Errorf("remove: %w", syscall.EAGAIN)))
	assert.False(t, IsTransient(&os.PathError{Op: "remove", Path: "a", Err: syscall.EACCES}))
	assert.False(t, IsTransient(os.ErrNotExist))
	assert.False(t, IsTransient(nil))
}
