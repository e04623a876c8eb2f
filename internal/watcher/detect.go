package watcher

import (
	"os"
)

// detect calls reload if the file changed since the last reload. force skips
// the mtime/size comparison, for event sources that already saw a change.
func (w *Watcher) detect(force bool) {
	w.mu.RLock()
	path := w.path
	last := w.lastModTime
	lastSize := w.lastSize
	w.mu.RUnlock()

	info, err := os.Stat(path)
	if err != nil {
		w.log.Debug().Err(err).Msg("config file not readable yet")
		return
	}

	mod := info.ModTime()
	if !force && !mod.After(last) && info.Size() == lastSize {
		return
	}

	if !w.isStable() {
		w.log.Debug().Msg("config file still changing, waiting for next event")
		return
	}

	w.mu.Lock()
	w.lastModTime = mod
	w.lastSize = info.Size()
	w.mu.Unlock()

	w.log.Info().Msg("config file changed, reloading")
	w.reload()
}
