package legacy

import (
	"context"
	"sync"

	"village/internal/onboarding/models"
	"village/pkg/platform/sentinel"
)

// InMemoryStore serves waitlist entries from process memory.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]models.LegacyRecord
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string]models.LegacyRecord)}
}

// Add seeds an entry; later entries for the same email win.
func (s *InMemoryStore) Add(rec models.LegacyRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[normalizeEmail(rec.Email)] = rec
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*models.LegacyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.entries[normalizeEmail(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &rec, nil
}
