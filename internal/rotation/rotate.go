// Package rotation implements numbered backup chains of the form
// name.1~, name.2~, ... next to the file being preserved.
package rotation

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/raoulx24/backup-rotator/internal/fs"
)

// Action tells the caller which branch a successful rotation took.
type Action int

const (
	ActionNone Action = iota
	ActionDeleted
	ActionRenamed
	ActionShifted
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionDeleted:
		return "deleted"
	case ActionRenamed:
		return "renamed"
	case ActionShifted:
		return "shifted"
	default:
		return "unknown"
	}
}

// Result describes a successful rotation. Path is the original path, which is
// free for re-creation afterwards. Slot is where the original ended up, or 0.
type Result struct {
	Path     string
	Slot     int
	Action   Action
	Messages []Message
}

// Engine rotates backup chains on a filesystem. It keeps no state between
// calls; callers must not rotate the same path concurrently.
type Engine struct {
	fs  fs.FS
	log zerolog.Logger
}

// New creates an engine. A nil filesystem means the local OS filesystem.
func New(filesystem fs.FS, log zerolog.Logger) *Engine {
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Engine{
		fs:  filesystem,
		log: log.With().Str("component", "rotation").Logger(),
	}
}

// Rotate moves t.Path into its backup chain. Messages are delivered to sink
// in the order the actions happen and are also returned, in Result on success
// or in *Error on failure.
//
// ctx is only honored until the first file is touched. After that the
// rotation runs to completion or to its first failure. A sink that refuses a
// message aborts the remaining steps.
func (e *Engine) Rotate(ctx context.Context, t Target, sink Sink) (Result, error) {
	if err := t.Validate(); err != nil {
		return Result{Path: t.Path}, err
	}
	if sink == nil {
		sink = Discard
	}

	r := &run{engine: e, ctx: ctx, target: t, sink: sink}
	r.log = e.log.With().Str("path", t.Path).Int("keep", t.Keep).Int("shift", t.Shift).Logger()

	if err := ctx.Err(); err != nil {
		return r.fail("rotate", t.Path, err, nil, "rotation cancelled")
	}

	exists, err := e.fs.Exists(t.Path)
	if err != nil {
		kind := ErrRenameFailed
		if t.Disabled() {
			kind = ErrDeleteFailed
		}
		return r.fail("stat", t.Path, kind, err, "failed to inspect file")
	}
	if !exists {
		r.log.Debug().Msg("nothing to rotate")
		return Result{Path: t.Path, Action: ActionNone}, nil
	}

	if t.Disabled() {
		return r.deleteOriginal()
	}

	slot, err := r.firstFreeSlot()
	if err != nil {
		return r.fail("stat", t.SlotPath(slot), ErrRenameFailed, err, "failed to inspect backup file")
	}
	if slot > 0 {
		return r.simpleRename(slot)
	}

	return r.shiftChain()
}

// run carries the per-call state of one rotation.
type run struct {
	engine  *Engine
	ctx     context.Context
	target  Target
	sink    Sink
	log     zerolog.Logger
	msgs    []Message
	started bool
	sinkErr error
}

func (r *run) emit(sev Severity, text string) error {
	if r.sinkErr != nil {
		return r.sinkErr
	}
	m := Message{Text: text, Severity: sev}
	r.msgs = append(r.msgs, m)
	if err := r.sink.Publish(m); err != nil {
		r.sinkErr = err
		return err
	}
	return nil
}

// emitPair publishes a headline followed by its highlighted detail line.
func (r *run) emitPair(headline, detail string) error {
	if err := r.emit(SeverityInfo, headline); err != nil {
		return err
	}
	return r.emit(SeverityHighlight, detail)
}

// begin marks the point of no return. Cancellation is checked one last time
// and the context is detached so retries are not cut short mid-chain.
func (r *run) begin() error {
	if r.started {
		return nil
	}
	if err := r.ctx.Err(); err != nil {
		return err
	}
	r.started = true
	r.ctx = context.WithoutCancel(r.ctx)
	return nil
}

func (r *run) fail(op, path string, kind, err error, text string) (Result, error) {
	if r.sinkErr == nil {
		_ = r.emit(SeverityError, text)
	}
	r.log.Debug().Err(err).Str("op", op).Str("target", path).Msg(text)
	return Result{Path: r.target.Path, Messages: r.msgs}, &Error{
		Op:       op,
		Path:     path,
		Kind:     kind,
		Err:      err,
		Messages: r.msgs,
	}
}

// abort converts a sink or cancellation error raised between steps.
func (r *run) abort(op, path string, err error) (Result, error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return r.fail(op, path, err, nil, "rotation cancelled")
	}
	return r.fail(op, path, ErrSinkClosed, err, "")
}

func (r *run) deleteOriginal() (Result, error) {
	t := r.target
	if err := r.emitPair("backups disabled, deleting existing file", "  del:"+absPath(t.Path)); err != nil {
		return r.abort("delete", t.Path, err)
	}
	if err := r.begin(); err != nil {
		return r.abort("delete", t.Path, err)
	}
	if err := r.engine.fs.Remove(r.ctx, t.Path); err != nil {
		return r.fail("delete", t.Path, ErrDeleteFailed, err, "failed to delete old backup file")
	}
	r.log.Debug().Msg("deleted original")
	return Result{Path: t.Path, Action: ActionDeleted, Messages: r.msgs}, nil
}

// firstFreeSlot scans 1..keep and then keep+1..keep+shift, low to high, and
// returns the first index with no file. 0 means the chain is full. On error
// the returned index is the slot that could not be inspected.
func (r *run) firstFreeSlot() (int, error) {
	t := r.target
	for i := 1; i <= t.Size(); i++ {
		ok, err := r.engine.fs.Exists(t.SlotPath(i))
		if err != nil {
			return i, err
		}
		if !ok {
			return i, nil
		}
	}
	return 0, nil
}

func (r *run) simpleRename(slot int) (Result, error) {
	t := r.target
	dst := t.SlotPath(slot)

	if err := r.emitPair("renamed existing file", arrow(t.Path, dst)); err != nil {
		return r.abort("rename", t.Path, err)
	}
	if err := r.begin(); err != nil {
		return r.abort("rename", t.Path, err)
	}
	if err := r.engine.fs.Rename(r.ctx, t.Path, dst); err != nil {
		return r.fail("rename", t.Path, ErrRenameFailed, err, "failed to rename file")
	}
	r.log.Debug().Int("slot", slot).Msg("renamed into free slot")

	return Result{Path: t.Path, Slot: slot, Action: ActionRenamed, Messages: r.msgs}, nil
}

func (r *run) shiftChain() (Result, error) {
	t := r.target

	oldest := t.SlotPath(t.Keep + 1)
	if err := r.emitPair("deleting old backup file", "  del:"+absPath(oldest)); err != nil {
		return r.abort("delete", oldest, err)
	}
	if t.Shift == 0 {
		return r.fail("delete", oldest, ErrDeleteFailed,
			fmt.Errorf("all %d kept slots are occupied and there is no shift window", t.Keep),
			"failed to delete old backup file")
	}
	if err := r.begin(); err != nil {
		return r.abort("delete", oldest, err)
	}
	if err := r.engine.fs.Remove(r.ctx, oldest); err != nil {
		return r.fail("delete", oldest, ErrDeleteFailed, err, "failed to delete old backup file")
	}
	r.log.Debug().Int("slot", t.Keep+1).Msg("deleted oldest shifted slot")

	// A failure in here leaves the chain partially shifted. There is no rollback.
	for i := t.Keep + 2; i <= t.Size(); i++ {
		from, to := t.SlotPath(i), t.SlotPath(i-1)
		if err := r.engine.fs.Rename(r.ctx, from, to); err != nil {
			return r.fail("rename", from, ErrRenameFailed, err, "failed to rename file")
		}
		r.log.Debug().Int("from", i).Int("to", i-1).Msg("renumbered slot")
		if err := r.emitPair("renumbered old backup file", arrow(from, to)); err != nil {
			return r.abort("rename", from, err)
		}
	}

	last := t.SlotPath(t.Size())
	if err := r.emitPair("renamed existing file", arrow(t.Path, last)); err != nil {
		return r.abort("rename", t.Path, err)
	}
	if err := r.engine.fs.Rename(r.ctx, t.Path, last); err != nil {
		return r.fail("rename", t.Path, ErrRenameFailed, err, "failed to rename file")
	}
	r.log.Debug().Int("slot", t.Size()).Msg("rotated into shifted chain")

	return Result{Path: t.Path, Slot: t.Size(), Action: ActionShifted, Messages: r.msgs}, nil
}

func arrow(from, to string) string {
	return fmt.Sprintf("  %s -> %s", filepath.Base(from), filepath.Base(to))
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
