// Package validator gates forward navigation and final submission. It never
// gates going back.
package validator

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"village/internal/onboarding/models"
)

const (
	ZipLength         = 5
	MinPasswordLength = 8
)

// requirement is one named predicate of a step.
type requirement struct {
	field string
	ok    func(in input) bool
}

type input struct {
	contact      models.Contact
	seeking      models.SeekingFields
	providing    models.ProvidingFields
	scratch      models.Scratch
	password     string
	confirmation string
}

// Steps not listed have no hard requirement: they are optional enrichment.
var seekingRules = map[int][]requirement{
	models.SeekingStepLocation:  {firstName, zipCode},
	models.SeekingStepCareNeeds: {careNeeds},
	models.SeekingStepAccount:   {passwordLength, passwordsMatch},
}

var providingRules = map[int][]requirement{
	models.ProvidingStepAbout:        {firstName, zipCode},
	models.ProvidingStepExperience:   {roleType, yearsExperience},
	models.ProvidingStepAvailability: {availabilityType, hourlyRate},
	models.ProvidingStepBio:          {bioLength},
	models.ProvidingStepAccount:      {passwordLength, passwordsMatch},
}

var (
	firstName = requirement{"first_name", func(in input) bool { return !models.IsEmpty(in.contact.FirstName) }}
	zipCode   = requirement{"zip_code", func(in input) bool { return utf8.RuneCountInString(strings.TrimSpace(in.contact.ZipCode)) == ZipLength }}
	careNeeds = requirement{"care_needs", func(in input) bool {
		return len(in.seeking.CareNeeds) > 0 || in.scratch.SomethingElseActive
	}}
	roleType         = requirement{"role_type", func(in input) bool { return !models.IsEmpty(in.providing.RoleType) }}
	yearsExperience  = requirement{"years_experience", func(in input) bool { return !models.IsEmpty(in.providing.YearsExperience) }}
	availabilityType = requirement{"availability_type", func(in input) bool { return !models.IsEmpty(in.providing.AvailabilityType) }}
	hourlyRate       = requirement{"hourly_rate", func(in input) bool {
		rate := strings.TrimSpace(in.providing.HourlyRate)
		if rate == "" {
			return true
		}
		v, err := strconv.ParseFloat(rate, 64)
		return err == nil && v >= 0
	}}
	bioLength = requirement{"bio", func(in input) bool {
		return utf8.RuneCountInString(in.providing.Bio) <= models.MaxBioLength
	}}
	passwordLength = requirement{"password", func(in input) bool {
		return utf8.RuneCountInString(in.password) >= MinPasswordLength
	}}
	passwordsMatch = requirement{"password_confirmation", func(in input) bool {
		return in.password == in.confirmation
	}}
)

// IsStepValid reports whether step is complete for the draft's branch.
// The draft's write-only password is checked against confirmation on the
// account step.
func IsStepValid(step int, draft *models.Draft, confirmation string) bool {
	return len(Missing(step, draft, confirmation)) == 0
}

// Missing names the requirements of step that the draft does not meet. Step 0
// only requires an intent; steps outside the branch are never valid.
func Missing(step int, draft *models.Draft, confirmation string) []string {
	if step == models.StepIntent {
		if !draft.Intent.IsKnown() {
			return []string{"user_intent"}
		}
		return nil
	}
	branch, err := draft.Branch()
	if err != nil {
		return []string{"user_intent"}
	}
	if step < 0 || step > models.LastStep(branch.Intent()) {
		return []string{"step"}
	}

	in := input{contact: draft.Contact, password: draft.Password, confirmation: confirmation}
	var rules map[int][]requirement
	switch b := branch.(type) {
	case models.SeekingBranch:
		in.seeking, in.scratch = b.Fields, b.Scratch
		rules = seekingRules
	case models.ProvidingBranch:
		in.providing = b.Fields
		rules = providingRules
	}

	var missing []string
	for _, r := range rules[step] {
		if !r.ok(in) {
			missing = append(missing, r.field)
		}
	}
	return missing
}

// FirstIncomplete walks steps 0 through the branch's last step and returns the
// first one with unmet requirements. ok is true when every step passes.
func FirstIncomplete(draft *models.Draft, confirmation string) (step int, missing []string, ok bool) {
	branch, err := draft.Branch()
	if err != nil {
		return models.StepIntent, []string{"user_intent"}, false
	}
	for step = models.StepIntent; step <= models.LastStep(branch.Intent()); step++ {
		if missing = Missing(step, draft, confirmation); len(missing) > 0 {
			return step, missing, false
		}
	}
	return 0, nil, true
}
