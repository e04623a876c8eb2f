package scheduler

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raoulx24/backup-rotator/internal/config"
	"github.com/raoulx24/backup-rotator/internal/worker"
)

type fakeSubmitter struct {
	mu   sync.Mutex
	jobs []worker.Job
	got  chan struct{}
}

func (f *fakeSubmitter) Submit(_ context.Context, job worker.Job) (<-chan worker.Outcome, error) {
	f.mu.Lock()
	f.jobs = append(f.jobs, job)
	f.mu.Unlock()

	select {
	case f.got <- struct{}{}:
	default:
	}

	ch := make(chan worker.Outcome, 1)
	ch <- worker.Outcome{Job: job}
	return ch, nil
}

func TestParseSchedule(t *testing.T) {
	for _, spec := range []string{"0 3 * * *", "*/5 * * * *", "@daily", "@every 1h"} {
		_, err := ParseSchedule(spec)
		assert.NoError(t, err, spec)
	}
	for _, spec := range []string{"", "every day", "0 0 3 * * *", "61 * * * *"} {
		_, err := ParseSchedule(spec)
		assert.Error(t, err, spec)
	}
}

func TestScheduler_SkipsUnscheduledTargets(t *testing.T) {
	s := New(context.Background(), &fakeSubmitter{}, zerolog.Nop())
	require.NoError(t, s.Start([]config.TargetConfig{
		{Path: "/a", Schedule: "@daily"},
		{Path: "/b"},
		{Path: "/c", Schedule: "0 * * * *"},
	}))
	defer s.Stop()

	entries := s.Entries()
	sort.Strings(entries)
	assert.Equal(t, []string{"/a", "/c"}, entries)
}

func TestScheduler_RejectsBadSchedule(t *testing.T) {
	s := New(context.Background(), &fakeSubmitter{}, zerolog.Nop())
	err := s.Start([]config.TargetConfig{{Path: "/a", Schedule: "whenever"}})
	assert.ErrorContains(t, err, "/a")
}

func TestScheduler_UpdateConfigKeepsOldScheduleOnError(t *testing.T) {
	s := New(context.Background(), &fakeSubmitter{}, zerolog.Nop())
	require.NoError(t, s.Start([]config.TargetConfig{{Path: "/a", Schedule: "@daily"}}))
	defer s.Stop()

	err := s.UpdateConfig([]config.TargetConfig{{Path: "/b", Schedule: "nope"}})
	require.Error(t, err)
	assert.Equal(t, []string{"/a"}, s.Entries())

	require.NoError(t, s.UpdateConfig([]config.TargetConfig{{Path: "/b", Schedule: "@hourly"}}))
	assert.Equal(t, []string{"/b"}, s.Entries())
}

func TestScheduler_SubmitsJobs(t *testing.T) {
	sub := &fakeSubmitter{got: make(chan struct{}, 1)}
	s := New(context.Background(), sub, zerolog.Nop())
	require.NoError(t, s.Start([]config.TargetConfig{
		{Path: "/data/example.txt", Keep: 1, Shift: 2, Create: true, Schedule: "@every 1s"},
	}))
	defer s.Stop()

	select {
	case <-sub.got:
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled job was not submitted")
	}

	sub.mu.Lock()
	defer sub.mu.Unlock()
	require.NotEmpty(t, sub.jobs)
	assert.Equal(t, "/data/example.txt", sub.jobs[0].Target.Path)
	assert.Equal(t, 1, sub.jobs[0].Target.Keep)
	assert.Equal(t, 2, sub.jobs[0].Target.Shift)
	assert.True(t, sub.jobs[0].Create)
}
