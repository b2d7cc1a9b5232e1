package adapters

import (
	"context"
	"maps"

	"village/internal/identity"
	"village/internal/onboarding/models"
	id "village/pkg/domain"
)

// IdentityStore is the interface that identity stores implement.
type IdentityStore interface {
	FindByID(ctx context.Context, identityID id.IdentityID) (*identity.Identity, error)
	UpdateMetadata(ctx context.Context, identityID id.IdentityID, fields map[string]any) error
	SetPasswordHash(ctx context.Context, identityID id.IdentityID, hash string) error
}

// IdentityAdapter adapts an identity store to the onboarding IdentityProvider port.
type IdentityAdapter struct {
	store IdentityStore
}

// NewIdentityAdapter creates a new adapter wrapping an identity store.
func NewIdentityAdapter(store IdentityStore) *IdentityAdapter {
	return &IdentityAdapter{store: store}
}

// GetSession returns the identity mapped to an onboarding session.
func (a *IdentityAdapter) GetSession(ctx context.Context, identityID id.IdentityID) (*models.Session, error) {
	ident, err := a.store.FindByID(ctx, identityID)
	if err != nil {
		return nil, err
	}
	return mapSession(ident), nil
}

func (a *IdentityAdapter) UpdateMetadata(ctx context.Context, identityID id.IdentityID, fields map[string]any) error {
	return a.store.UpdateMetadata(ctx, identityID, fields)
}

func (a *IdentityAdapter) SetPasswordHash(ctx context.Context, identityID id.IdentityID, hash string) error {
	return a.store.SetPasswordHash(ctx, identityID, hash)
}

func mapSession(ident *identity.Identity) *models.Session {
	return &models.Session{
		ID:       ident.ID.String(),
		Email:    ident.Email,
		Metadata: maps.Clone(ident.Metadata),
	}
}
