package store

import (
	"context"
	"maps"
	"strings"
	"sync"
	"time"

	"village/internal/identity"
	id "village/pkg/domain"
	"village/pkg/platform/sentinel"
)

// InMemoryStore keeps identities in process for tests and local runs.
type InMemoryStore struct {
	mu         sync.RWMutex
	identities map[id.IdentityID]*identity.Identity
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{identities: make(map[id.IdentityID]*identity.Identity)}
}

func (s *InMemoryStore) Save(_ context.Context, ident *identity.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := copyIdentity(ident)
	c.Email = strings.ToLower(c.Email)
	c.UpdatedAt = time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = c.UpdatedAt
	}
	s.identities[ident.ID] = c
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, identityID id.IdentityID) (*identity.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ident, ok := s.identities[identityID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyIdentity(ident), nil
}

func (s *InMemoryStore) UpdateMetadata(_ context.Context, identityID id.IdentityID, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ident, ok := s.identities[identityID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if ident.Metadata == nil {
		ident.Metadata = map[string]any{}
	}
	maps.Copy(ident.Metadata, fields)
	ident.UpdatedAt = time.Now()
	return nil
}

func (s *InMemoryStore) SetPasswordHash(_ context.Context, identityID id.IdentityID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ident, ok := s.identities[identityID]
	if !ok {
		return sentinel.ErrNotFound
	}
	ident.PasswordHash = hash
	ident.UpdatedAt = time.Now()
	return nil
}

func copyIdentity(in *identity.Identity) *identity.Identity {
	c := *in
	c.Metadata = maps.Clone(in.Metadata)
	return &c
}
