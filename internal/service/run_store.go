package service

import (
	"sync"
	"time"

	"github.com/unialloc/room-alloc-api/internal/models"
)

// runStore keeps run results in memory for the reporting endpoints,
// expiring them after a TTL.
type runStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]*models.RunResult
}

func newRunStore(ttl time.Duration) *runStore {
	return &runStore{
		ttl:   ttl,
		items: make(map[string]*models.RunResult),
	}
}

func (s *runStore) Save(result *models.RunResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[result.RunID] = result
}

func (s *runStore) Get(id string) (*models.RunResult, bool) {
	s.mu.RLock()
	result, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Since(result.StartedAt) > s.ttl {
		s.Delete(id)
		return nil, false
	}
	return result, true
}

func (s *runStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}
