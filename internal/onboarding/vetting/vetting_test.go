package vetting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"village/internal/onboarding/models"
)

func draftWith(intent models.Intent, careNeeds ...string) *models.Draft {
	d := models.NewDraft()
	d.Intent = intent
	d.Seeking.CareNeeds = careNeeds
	return d
}

func TestDetermine(t *testing.T) {
	tests := []struct {
		name    string
		draft   *models.Draft
		hosting bool
		want    models.VettingRequirement
	}{
		{
			name:  "host-share trigger",
			draft: draftWith(models.IntentSeeking, "host-share"),
			want:  models.VettingRequirement{Required: true, Types: []string{"host-share"}},
		},
		{
			name:  "no trigger",
			draft: draftWith(models.IntentSeeking, "nanny-share"),
			want:  models.VettingRequirement{Required: false, Types: []string{}},
		},
		{
			name:    "hosting interest and triggers are additive",
			draft:   draftWith(models.IntentSeeking, "offer-backup", "carpool", "care-exchange"),
			hosting: true,
			want:    models.VettingRequirement{Required: true, Types: []string{"host", "care-exchange", "offer-backup"}},
		},
		{
			name:  "provider always present",
			draft: draftWith(models.IntentProviding, "offer-pickups"),
			want:  models.VettingRequirement{Required: true, Types: []string{"offer-pickups", "provider"}},
		},
		{
			name:  "provider without care needs",
			draft: draftWith(models.IntentProviding),
			want:  models.VettingRequirement{Required: true, Types: []string{"provider"}},
		},
		{
			name:  "unset intent with no reasons",
			draft: draftWith(models.IntentUnset),
			want:  models.VettingRequirement{Required: false, Types: []string{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Determine(tt.draft, tt.hosting))
		})
	}
}

func TestDetermineIsPure(t *testing.T) {
	d := draftWith(models.IntentProviding, "host-share", "host-share", "carpool")
	before := d.Clone()

	first := Determine(d, true)
	second := Determine(d, true)

	assert.Equal(t, first, second)
	assert.Equal(t, before, d, "input must not be mutated")
	assert.Equal(t, []string{"host", "host-share", "provider"}, first.Types)
}
