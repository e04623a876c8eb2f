package worker

import (
	"context"
)

// contains the loop that continuously pulls jobs from the queue
// and executes them one at a time.

// Start runs queued jobs until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info().Msg("starting worker")
	for {
		sub, ok := w.queue.Pop(ctx)
		if !ok {
			w.log.Info().Msg("worker stopped")
			return
		}

		// A job cancelled while queued never touches the disk.
		if err := sub.ctx.Err(); err != nil {
			sub.done <- Outcome{Job: sub.job, Err: err}
			continue
		}

		sub.done <- w.Handle(sub.ctx, sub.job)
	}
}
