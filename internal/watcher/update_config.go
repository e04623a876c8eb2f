package watcher

import (
	"time"

	"github.com/raoulx24/backup-rotator/internal/config"
)

// UpdateConfig applies new timing settings after a reload. The debounce and
// stability windows apply to the next change; the poll interval and watch
// mode are read once by Start and only change on restart.
func (w *Watcher) UpdateConfig(cfg config.ReloadConfig) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.debounce = cfg.DebounceWindow
	w.stability = cfg.StabilityWindow
}

func (w *Watcher) debounceWindow() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.debounce
}
