package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"village/internal/onboarding/models"
)

func seeker() *models.Draft {
	d := models.NewDraft()
	d.Intent = models.IntentSeeking
	d.FirstName = "Sam"
	d.ZipCode = "94110"
	d.Seeking.CareNeeds = []string{"carpool"}
	d.Password = "abcdefgh"
	return d
}

func provider() *models.Draft {
	d := models.NewDraft()
	d.Intent = models.IntentProviding
	d.FirstName = "Rae"
	d.ZipCode = "10001"
	d.Providing.RoleType = "nanny"
	d.Providing.YearsExperience = "3-5"
	d.Providing.AvailabilityType = "part_time"
	d.Providing.HourlyRate = "25.50"
	d.Providing.Bio = "Former teacher."
	d.Password = "abcdefgh"
	return d
}

func TestIntentStep(t *testing.T) {
	assert.False(t, IsStepValid(models.StepIntent, models.NewDraft(), ""))
	assert.True(t, IsStepValid(models.StepIntent, seeker(), ""))
	assert.True(t, IsStepValid(models.StepIntent, provider(), ""))
}

func TestCompleteDraftsPassEveryStep(t *testing.T) {
	for _, d := range []*models.Draft{seeker(), provider()} {
		for step := 0; step <= models.LastStep(d.Intent); step++ {
			assert.Empty(t, Missing(step, d, "abcdefgh"), "intent=%s step=%d", d.Intent, step)
		}
	}
}

func TestRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		draft  func() *models.Draft
		step   int
		mutate func(d *models.Draft)
		want   []string
	}{
		{"seeking first name", seeker, models.SeekingStepLocation, func(d *models.Draft) { d.FirstName = "  " }, []string{"first_name"}},
		{"seeking zip of 4", seeker, models.SeekingStepLocation, func(d *models.Draft) { d.ZipCode = "9411" }, []string{"zip_code"}},
		{"seeking zip of 6", seeker, models.SeekingStepLocation, func(d *models.Draft) { d.ZipCode = "941100" }, []string{"zip_code"}},
		{"seeking no care needs", seeker, models.SeekingStepCareNeeds, func(d *models.Draft) { d.Seeking.CareNeeds = nil }, []string{"care_needs"}},
		{"providing zip", provider, models.ProvidingStepAbout, func(d *models.Draft) { d.ZipCode = "" }, []string{"zip_code"}},
		{"providing role and years", provider, models.ProvidingStepExperience, func(d *models.Draft) {
			d.Providing.RoleType = ""
			d.Providing.YearsExperience = ""
		}, []string{"role_type", "years_experience"}},
		{"providing negative rate", provider, models.ProvidingStepAvailability, func(d *models.Draft) { d.Providing.HourlyRate = "-3" }, []string{"hourly_rate"}},
		{"providing rate not a number", provider, models.ProvidingStepAvailability, func(d *models.Draft) { d.Providing.HourlyRate = "lots" }, []string{"hourly_rate"}},
		{"providing bio too long", provider, models.ProvidingStepBio, func(d *models.Draft) { d.Providing.Bio = strings.Repeat("a", 501) }, []string{"bio"}},
		{"short password", seeker, models.SeekingStepAccount, func(d *models.Draft) { d.Password = "abc" }, []string{"password", "password_confirmation"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.draft()
			assert.True(t, IsStepValid(tt.step, d, d.Password))
			tt.mutate(d)
			assert.Equal(t, tt.want, Missing(tt.step, d, "abcdefgh"))
			assert.False(t, IsStepValid(tt.step, d, "abcdefgh"))
		})
	}
}

func TestZipBoundary(t *testing.T) {
	d := seeker()
	for zip, want := range map[string]bool{"9411": false, "94110": true, "941100": false, "": false} {
		d.ZipCode = zip
		assert.Equal(t, want, IsStepValid(models.SeekingStepLocation, d, ""), "zip=%q", zip)
	}
}

func TestOptionalSteps(t *testing.T) {
	d := models.NewDraft()
	d.Intent = models.IntentSeeking
	assert.True(t, IsStepValid(models.SeekingStepSchedule, d, ""))
	assert.True(t, IsStepValid(models.SeekingStepFamily, d, ""))

	d.Seeking.Kids = []models.Child{{FirstName: "Ada"}}
	assert.True(t, IsStepValid(models.SeekingStepFamily, d, ""), "incomplete children never block")

	d.Intent = models.IntentProviding
	assert.True(t, IsStepValid(models.ProvidingStepSkills, d, ""))
	p := provider()
	p.Providing.HourlyRate = ""
	assert.True(t, IsStepValid(models.ProvidingStepAvailability, p, ""), "hourly rate is optional")
}

func TestSomethingElseToggleSatisfiesCareNeeds(t *testing.T) {
	d := seeker()
	d.Seeking.CareNeeds = nil
	d.Scratch.SomethingElseActive = true
	assert.True(t, IsStepValid(models.SeekingStepCareNeeds, d, ""))
}

func TestAccountStepConfirmation(t *testing.T) {
	d := seeker()
	d.Password = "abcdefgh"
	assert.False(t, IsStepValid(models.SeekingStepAccount, d, "abcdefg1"))
	assert.True(t, IsStepValid(models.SeekingStepAccount, d, "abcdefgh"))
}

func TestStepsOutsideBranch(t *testing.T) {
	assert.False(t, IsStepValid(models.ProvidingStepAccount, seeker(), "abcdefgh"))
	assert.False(t, IsStepValid(-1, seeker(), ""))
	assert.Equal(t, []string{"user_intent"}, Missing(models.SeekingStepLocation, models.NewDraft(), ""))
}

func TestFirstIncomplete(t *testing.T) {
	_, _, ok := FirstIncomplete(seeker(), "abcdefgh")
	assert.True(t, ok)
	_, _, ok = FirstIncomplete(provider(), "abcdefgh")
	assert.True(t, ok)

	bare := models.NewDraft()
	bare.Intent = models.IntentSeeking
	bare.Password = "abcdefgh"
	step, missing, ok := FirstIncomplete(bare, "abcdefgh")
	assert.False(t, ok)
	assert.Equal(t, models.SeekingStepLocation, step)
	assert.Equal(t, []string{"first_name", "zip_code"}, missing)

	d := provider()
	d.Providing.AvailabilityType = ""
	d.Password = "short"
	step, missing, ok = FirstIncomplete(d, "short")
	assert.False(t, ok)
	assert.Equal(t, models.ProvidingStepAvailability, step, "earlier steps are reported before the account step")
	assert.Equal(t, []string{"availability_type"}, missing)

	step, missing, ok = FirstIncomplete(models.NewDraft(), "")
	assert.False(t, ok)
	assert.Equal(t, models.StepIntent, step)
	assert.Equal(t, []string{"user_intent"}, missing)
}
