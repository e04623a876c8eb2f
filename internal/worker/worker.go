// Package worker runs rotation jobs, one per target path at a time, and
// performs the follow-up steps around each rotation.
package worker

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/raoulx24/backup-rotator/internal/fs"
	"github.com/raoulx24/backup-rotator/internal/rotation"
)

// Separator closes the message log of every job.
const Separator = "----------------------------------"

// Worker serializes rotations and recreates rotated files on request.
type Worker struct {
	engine *rotation.Engine
	fs     fs.FS
	log    zerolog.Logger
	queue  *Queue
	locks  pathLocks
}

// New creates a worker. A nil filesystem means the local OS filesystem; it
// should be the same one the engine uses.
func New(engine *rotation.Engine, filesystem fs.FS, log zerolog.Logger, queueSize int) *Worker {
	if filesystem == nil {
		filesystem = fs.New()
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	log = log.With().Str("component", "worker").Logger()
	log.Debug().Int("queue_size", queueSize).Msg("creating worker")
	return &Worker{
		engine: engine,
		fs:     filesystem,
		log:    log,
		queue:  NewQueue(queueSize),
	}
}

// Submit queues job and returns a channel that receives its single Outcome.
// The job is skipped if ctx is cancelled before the worker reaches it.
func (w *Worker) Submit(ctx context.Context, job Job) (<-chan Outcome, error) {
	if job.Timestamp.IsZero() {
		job.Timestamp = time.Now()
	}
	done := make(chan Outcome, 1)
	if err := w.queue.Push(ctx, submission{ctx: ctx, job: job, done: done}); err != nil {
		return nil, fmt.Errorf("queueing rotation of %s: %w", job.Target.Path, err)
	}
	w.log.Debug().Str("path", job.Target.Path).Int("queued", w.queue.Len()).Msg("job queued")
	return done, nil
}

// Handle rotates job.Target synchronously, then creates a fresh file if asked.
// Calls for the same path are serialized.
func (w *Worker) Handle(ctx context.Context, job Job) Outcome {
	sink := job.Sink
	if sink == nil {
		sink = rotation.Discard
	}
	log := w.log.With().Str("path", job.Target.Path).Logger()

	unlock := w.locks.lock(job.Target.Path)
	defer unlock()

	out := Outcome{Job: job}
	res, err := w.engine.Rotate(ctx, job.Target, sink)
	out.Result = res

	switch {
	case err != nil:
		out.Err = err
		log.Error().Err(err).Bool("transient", fs.IsTransient(err)).Msg("rotation failed")
		publish(sink, rotation.SeverityError, "failed to generate backup file")

	case job.Create:
		name := filepath.Base(res.Path)
		if err := w.fs.Create(res.Path); err != nil {
			out.Err = fmt.Errorf("creating %s: %w", res.Path, err)
			log.Error().Err(err).Bool("transient", fs.IsTransient(err)).Msg("creating fresh file failed")
			publish(sink, rotation.SeverityError, "failed to create "+name)
		} else {
			out.Created = res.Path
			publish(sink, rotation.SeverityInfo, "created "+name)
		}
		log.Info().Stringer("action", res.Action).Int("slot", res.Slot).Msg("rotated")

	default:
		log.Info().Stringer("action", res.Action).Int("slot", res.Slot).Msg("rotated")
	}

	publish(sink, rotation.SeverityInfo, Separator)
	return out
}

// publish ignores sink errors: by the time these follow-up messages are sent
// the rotation has already finished.
func publish(sink rotation.Sink, sev rotation.Severity, text string) {
	_ = sink.Publish(rotation.Message{Text: text, Severity: sev})
}
