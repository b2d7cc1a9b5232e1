package domain

import (
	"github.com/google/uuid"

	dErrors "village/pkg/domain-errors"
)

// IdentityID identifies an authenticated end user across the identity
// provider, the profile store and the draft slot.
type IdentityID uuid.UUID

// ParseIdentityID validates s as a non-nil UUID.
func ParseIdentityID(s string) (IdentityID, error) {
	if s == "" {
		return IdentityID{}, dErrors.New(dErrors.CodeInvalidInput, "identity id is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return IdentityID{}, dErrors.New(dErrors.CodeInvalidInput, "identity id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return IdentityID{}, dErrors.New(dErrors.CodeInvalidInput, "identity id cannot be nil")
	}
	return IdentityID(parsed), nil
}

func (i IdentityID) String() string {
	return uuid.UUID(i).String()
}

func (i IdentityID) IsNil() bool {
	return uuid.UUID(i) == uuid.Nil
}
