package history

import (
	"context"
	"sync"

	"github.com/mohammad-safakhou/taskforce/internal/dispatch"
)

// MemoryStore keeps the most recent summaries in process memory, newest
// first.
type MemoryStore struct {
	mu    sync.RWMutex
	items []dispatch.Summary
	max   int
}

func NewMemoryStore(max int) *MemoryStore {
	if max <= 0 {
		max = 50
	}
	return &MemoryStore{max: max}
}

func (s *MemoryStore) Save(_ context.Context, summary dispatch.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]dispatch.Summary{summary}, s.items...)
	if len(s.items) > s.max {
		s.items = s.items[:s.max]
	}
	return nil
}

func (s *MemoryStore) Recent(_ context.Context, limit int) ([]dispatch.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.items) {
		limit = len(s.items)
	}
	out := make([]dispatch.Summary, limit)
	copy(out, s.items[:limit])
	return out, nil
}
