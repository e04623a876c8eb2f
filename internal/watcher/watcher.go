// Package watcher monitors the config file and triggers a reload when it changes.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/raoulx24/backup-rotator/internal/config"
	"github.com/raoulx24/backup-rotator/internal/fsprobe"
)

// Watcher observes one file and calls reload after it settles.
type Watcher struct {
	mu sync.RWMutex

	path      string
	interval  time.Duration
	mode      string
	debounce  time.Duration
	stability time.Duration

	log zerolog.Logger

	lastModTime time.Time
	lastSize    int64

	reload func()
}

// New creates a watcher for the config file at path. The file's current state
// is the baseline, so an unchanged file never triggers reload.
func New(path string, cfg config.ReloadConfig, log zerolog.Logger, reload func()) *Watcher {
	w := &Watcher{
		path:      path,
		interval:  cfg.PollInterval,
		mode:      cfg.Method,
		debounce:  cfg.DebounceWindow,
		stability: cfg.StabilityWindow,
		log:       log.With().Str("component", "watcher").Str("file", path).Logger(),
		reload:    reload,
	}
	if info, err := os.Stat(path); err == nil {
		w.lastModTime = info.ModTime()
		w.lastSize = info.Size()
	}
	return w
}

// Start chooses the correct watching strategy based on config and blocks
// until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.RLock()
	mode := w.mode
	dir := filepath.Dir(w.path)
	w.mu.RUnlock()

	switch mode {
	case "fsnotify":
		return w.StartFsNotify(ctx)

	case "poll":
		w.StartPolling(ctx)
		return nil

	case "auto", "":
		res := fsprobe.Probe(dir, fsprobe.DefaultTimeout)
		if res.FsnotifySupported {
			return w.StartFsNotify(ctx)
		}
		w.log.Warn().Str("reason", res.Reason).Msg("fsnotify disabled, falling back to polling")
		w.StartPolling(ctx)
		return nil

	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}
