// Package scheduler rotates configured targets on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/raoulx24/backup-rotator/internal/config"
	"github.com/raoulx24/backup-rotator/internal/worker"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule validates a 5-field cron expression or a descriptor such as
// "@daily" or "@every 1h".
func ParseSchedule(spec string) (cron.Schedule, error) {
	return parser.Parse(spec)
}

// Submitter is the part of the worker the scheduler needs.
type Submitter interface {
	Submit(ctx context.Context, job worker.Job) (<-chan worker.Outcome, error)
}

// Scheduler owns one cron instance and rebuilds it on config changes.
type Scheduler struct {
	mu      sync.Mutex
	ctx     context.Context
	cron    *cron.Cron
	entries map[string]cron.EntryID
	w       Submitter
	log     zerolog.Logger
}

// New creates a scheduler. Jobs are submitted with ctx, so cancelling it
// skips rotations that are still queued.
func New(ctx context.Context, w Submitter, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		ctx:     ctx,
		w:       w,
		log:     log.With().Str("component", "scheduler").Logger(),
		entries: map[string]cron.EntryID{},
	}
}

// Start schedules every target with a schedule and starts the cron loop.
func (s *Scheduler) Start(targets []config.TargetConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked(targets)
}

// UpdateConfig stops the running cron and starts a new one for targets.
// On error the previous schedule keeps running.
func (s *Scheduler) UpdateConfig(targets []config.TargetConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, entries, err := s.build(targets)
	if err != nil {
		return err
	}
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	s.cron, s.entries = next, entries
	s.cron.Start()
	s.log.Info().Int("scheduled", len(entries)).Msg("schedule reloaded")
	return nil
}

// Stop halts the cron loop and waits for running callbacks to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

// Entries returns the scheduled target paths.
func (s *Scheduler) Entries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.entries))
	for path := range s.entries {
		out = append(out, path)
	}
	return out
}

func (s *Scheduler) startLocked(targets []config.TargetConfig) error {
	c, entries, err := s.build(targets)
	if err != nil {
		return err
	}
	s.cron, s.entries = c, entries
	s.cron.Start()
	s.log.Info().Int("scheduled", len(entries)).Msg("scheduler started")
	return nil
}

func (s *Scheduler) build(targets []config.TargetConfig) (*cron.Cron, map[string]cron.EntryID, error) {
	c := cron.New(cron.WithParser(parser))
	entries := map[string]cron.EntryID{}

	for _, t := range targets {
		if t.Schedule == "" {
			s.log.Debug().Str("path", t.Path).Msg("target has no schedule, skipping")
			continue
		}

		target := t
		id, err := c.AddFunc(target.Schedule, func() { s.run(target) })
		if err != nil {
			return nil, nil, fmt.Errorf("scheduling %s: %w", target.Path, err)
		}
		entries[target.Path] = id
		s.log.Info().Str("path", target.Path).Str("schedule", target.Schedule).Msg("scheduled rotation")
	}

	return c, entries, nil
}

// run submits one rotation and waits for its outcome so that overlapping
// cron ticks for the same target queue up behind each other.
func (s *Scheduler) run(t config.TargetConfig) {
	log := s.log.With().Str("path", t.Path).Logger()

	ch, err := s.w.Submit(s.ctx, worker.JobFromConfig(t))
	if err != nil {
		log.Error().Err(err).Msg("could not queue scheduled rotation")
		return
	}

	select {
	case out := <-ch:
		if out.Err != nil {
			log.Error().Err(out.Err).Msg("scheduled rotation failed")
			return
		}
		log.Info().Stringer("action", out.Result.Action).Int("slot", out.Result.Slot).Msg("scheduled rotation done")
	case <-s.ctx.Done():
	}
}
