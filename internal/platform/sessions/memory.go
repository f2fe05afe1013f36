package sessions

import (
	"context"
	"sync"
	"time"
)

// memoryStore is a process-local Store used by tests.
type memoryStore struct {
	mutex sync.RWMutex
	t     map[string]string
}

func NewMemoryStore() Store {
	return &memoryStore{t: make(map[string]string)}
}

func (s *memoryStore) Create(_ context.Context, jti, userID string, _ time.Duration) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.t[jti] = userID
	return nil
}

func (s *memoryStore) Exists(_ context.Context, jti string) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	_, ok := s.t[jti]
	return ok, nil
}

func (s *memoryStore) Delete(_ context.Context, jti string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.t, jti)
	return nil
}
