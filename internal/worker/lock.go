package worker

import (
	"path/filepath"
	"sync"
)

// pathLocks hands out one mutex per cleaned absolute path so that at most one
// rotation per file is in flight, whoever calls Handle.
type pathLocks struct {
	mu sync.Mutex
	m  map[string]*pathLock
}

type pathLock struct {
	mu   sync.Mutex
	refs int
}

func lockKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// lock blocks until path is free and returns the matching unlock.
func (p *pathLocks) lock(path string) func() {
	key := lockKey(path)

	p.mu.Lock()
	if p.m == nil {
		p.m = map[string]*pathLock{}
	}
	l, ok := p.m[key]
	if !ok {
		l = &pathLock{}
		p.m[key] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.m, key)
		}
		p.mu.Unlock()
	}
}
