package accesslog

import (
	"context"
	"sort"
	"sync"
	"time"

	"truida/internal/passenger/models"
	id "truida/pkg/domain"
)

// InMemoryStore is an append-only access log ordered by timestamp. Entries
// with equal timestamps keep their append order.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []models.AccessLogEntry
}

func New() *InMemoryStore {
	return &InMemoryStore{}
}

// Append assigns a fresh id, stamps the entry if it has no timestamp, and
// inserts it at its timestamp position.
func (s *InMemoryStore) Append(_ context.Context, entry models.AccessLogEntry) (models.AccessLogEntry, error) {
	entry.ID = id.NewAccessLogID()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].Timestamp.After(entry.Timestamp)
	})
	s.entries = append(s.entries, models.AccessLogEntry{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = entry
	return entry, nil
}

// Recent returns up to limit entries, newest first. A non-nil since drops
// entries older than it.
func (s *InMemoryStore) Recent(_ context.Context, limit int, since *time.Time) ([]models.AccessLogEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AccessLogEntry, 0, min(limit, len(s.entries)))
	for i := len(s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := s.entries[i]
		if since != nil && e.Timestamp.Before(*since) {
			break
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *InMemoryStore) ClearAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}
