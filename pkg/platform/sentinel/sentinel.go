package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and upstream adapters return
// these (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: record does not exist in the store or slot
//   - ErrConflict: write rejected because of a concurrent or duplicate write
//   - ErrInvalidState: stored entity is unreadable or in the wrong shape
//   - ErrUnavailable: backing service temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
