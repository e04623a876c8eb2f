package rotation

import (
	"errors"
	"fmt"
)

var (
	// ErrDeleteFailed means a slot or the original could not be removed.
	ErrDeleteFailed = errors.New("delete failed")
	// ErrRenameFailed means the OS refused a rename.
	ErrRenameFailed = errors.New("rename failed")
	// ErrInvalidTarget means the target was rejected before touching the disk.
	ErrInvalidTarget = errors.New("invalid rotation target")
	// ErrSinkClosed means the progress observer went away; remaining steps are skipped.
	ErrSinkClosed = errors.New("progress sink closed")
)

// Error is the terminal failure of one rotation. Messages holds everything
// emitted up to the failure so callers can show how far the rotation got.
type Error struct {
	Op       string
	Path     string
	Kind     error
	Err      error
	Messages []Message
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// MessagesOf returns the message log carried by err, if any.
func MessagesOf(err error) []Message {
	var re *Error
	if errors.As(err, &re) {
		return re.Messages
	}
	return nil
}
