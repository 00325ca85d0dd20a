package engine

import "sync"

// sessionLocks serializes mutation per session key. Cross-session operations
// stay fully parallel; within a session, overlapping requests (duplicate
// submits) take the same mutex for the whole read-modify-write.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: map[string]*sync.Mutex{}}
}

// lock acquires the mutex for key and returns its unlock func.
func (s *sessionLocks) lock(key string) func() {
	s.mu.Lock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}
