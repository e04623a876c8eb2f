package worker

import (
	"time"

	"github.com/raoulx24/backup-rotator/internal/config"
	"github.com/raoulx24/backup-rotator/internal/rotation"
)

// Job represents a rotation request submitted to the worker.
type Job struct {
	Target    rotation.Target
	Create    bool          // create a fresh empty file once the original is rotated away
	Sink      rotation.Sink // nil discards progress messages
	Timestamp time.Time
}

// Outcome is what the worker reports back for a Job.
type Outcome struct {
	Job     Job
	Result  rotation.Result
	Created string // path of the fresh file, if one was created
	Err     error
}

// JobFromConfig builds a job for a configured target.
func JobFromConfig(t config.TargetConfig) Job {
	return Job{
		Target: rotation.Target{Path: t.Path, Keep: t.Keep, Shift: t.Shift},
		Create: t.Create,
	}
}
