package fs

import (
	"errors"
	"syscall"
)

// isTransient decides whether a failed rename/remove may succeed if repeated.
// Anything not listed here (permissions, missing files, cross-device) is final.
func isTransient(err error) bool {
	return errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.EBUSY) ||
		errors.Is(err, syscall.EINTR) ||
		errors.Is(err, syscall.ETIMEDOUT)
}

// IsTransient reports whether err, possibly wrapped, is one that a retry
// could clear.
func IsTransient(err error) bool {
	return isTransient(err)
}
