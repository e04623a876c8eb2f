package rotation

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// Target is one rotation request: the file to preserve and the shape of its
// backup chain. Keep slots are filled once and left alone; Shift slots form a
// FIFO that ages out the oldest entry on every full rotation.
type Target struct {
	Path  string
	Keep  int
	Shift int
}

// SlotName returns the on-disk name of backup slot index for base, e.g.
// "example.txt.3~". The format must not change: existing chains depend on it.
func SlotName(base string, index int) string {
	return base + "." + strconv.Itoa(index) + "~"
}

// SlotPath returns the full path of slot index, next to the original file.
func (t Target) SlotPath(index int) string {
	return filepath.Join(filepath.Dir(t.Path), SlotName(filepath.Base(t.Path), index))
}

// Size is the total number of slots in the chain.
func (t Target) Size() int {
	return t.Keep + t.Shift
}

// Disabled reports whether the chain keeps no backups at all.
func (t Target) Disabled() bool {
	return t.Keep == 0 && t.Shift == 0
}

// Validate checks the target before any filesystem access.
func (t Target) Validate() error {
	if t.Path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidTarget)
	}
	if t.Keep < 0 || t.Shift < 0 {
		return fmt.Errorf("%w: keep=%d shift=%d must not be negative", ErrInvalidTarget, t.Keep, t.Shift)
	}
	return nil
}
