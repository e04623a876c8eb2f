package worker

import "context"

// provides a simple in-memory job queue used by the worker.

type submission struct {
	ctx  context.Context
	job  Job
	done chan Outcome
}

type Queue struct {
	ch chan submission
}

func NewQueue(size int) *Queue {
	return &Queue{ch: make(chan submission, size)}
}

// Push blocks while the queue is full.
func (q *Queue) Push(ctx context.Context, s submission) error {
	select {
	case q.ch <- s:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) Pop(ctx context.Context) (submission, bool) {
	select {
	case s := <-q.ch:
		return s, true
	case <-ctx.Done():
		return submission{}, false
	}
}

// Len reports how many submissions are waiting.
func (q *Queue) Len() int {
	return len(q.ch)
}
