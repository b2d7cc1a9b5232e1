// Package identity holds the accounts the onboarding wizard attaches profiles
// to. Sessions are issued elsewhere; this service reads identities and
// updates their metadata and credentials.
package identity

import (
	"time"

	id "village/pkg/domain"
)

// Identity is one authenticated account.
type Identity struct {
	ID           id.IdentityID
	Email        string
	Metadata     map[string]any
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
