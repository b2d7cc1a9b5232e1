// Package vetting derives the compliance review requirement for a draft.
package vetting

import (
	"village/internal/onboarding/models"
	"village/pkg/platform/sets"
)

// Vetting types.
const (
	TypeHost     = "host"
	TypeProvider = "provider"
)

// TriggerCareNeeds are the care needs that put the user in a hosting or
// support role. Each one selected becomes its own vetting type.
var TriggerCareNeeds = []string{"host-share", "care-exchange", "offer-pickups", "offer-backup"}

// Determine computes the vetting requirement for a draft.
// This is pure domain logic - no I/O, no side effects, no caching. The draft is
// only read. Reasons are additive and deduplicated:
//  1. hosting interest adds "host"
//  2. each trigger care need selected adds itself
//  3. the providing intent adds "provider"
func Determine(draft *models.Draft, hostingInterest bool) models.VettingRequirement {
	types := make([]string, 0, len(TriggerCareNeeds)+2)

	// Rule 1: explicit interest in hosting
	if hostingInterest {
		types = append(types, TypeHost)
	}

	// Rule 2: the specific trigger ids, not a generic flag
	types = append(types, sets.Intersect(TriggerCareNeeds, draft.Seeking.CareNeeds)...)

	// Rule 3: every provider is reviewed
	if draft.Intent == models.IntentProviding {
		types = append(types, TypeProvider)
	}

	types = sets.Normalize(types)
	if types == nil {
		types = []string{}
	}
	return models.VettingRequirement{
		Required: len(types) > 0,
		Types:    types,
	}
}
