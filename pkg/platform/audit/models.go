package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	id "village/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// Downstream consumers route and retain by category.
type EventCategory string

const (
	// CategoryCompliance covers events that record a user's committed choices.
	// Examples: a finished onboarding and the profile it produced.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers events useful for debugging and operational visibility.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID         uuid.UUID
	Category   EventCategory
	Timestamp  time.Time
	IdentityID id.IdentityID
	Action     string
	// Intent is the onboarding branch the action applied to ("seeking" or "providing").
	Intent string
	// VettingTypes lists the background-check categories flagged at completion.
	VettingTypes []string
	Decision     string
	Reason       string
	RequestID    string
	ClientIP     string
	UserAgent    string
}

// Store persists or forwards audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

type AuditEvent string

const (
	// Onboarding events
	EventOnboardingCompleted    AuditEvent = "onboarding_completed"
	EventOnboardingFinishFailed AuditEvent = "onboarding_finish_failed"
	EventIdentitySyncFailed     AuditEvent = "identity_sync_failed"
)

// eventCategories maps each audit event to its category.
var eventCategories = map[AuditEvent]EventCategory{
	EventOnboardingCompleted:    CategoryCompliance,
	EventOnboardingFinishFailed: CategoryOperations,
	EventIdentitySyncFailed:     CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}
