package service

import (
	"strings"
	"time"

	"village/internal/onboarding/catalog"
	"village/internal/onboarding/models"
	"village/pkg/platform/sets"
)

const careNeedExploring = "exploring"

// buildSeekerProfile projects the seeking branch into its payload.
func buildSeekerProfile(identityID string, b models.SeekingBranch, vet models.VettingRequirement, labels *catalog.Catalog, now time.Time) *models.SeekerProfile {
	f := b.Fields
	kids := make([]models.Child, 0, len(f.Kids))
	for _, k := range f.Kids {
		if k.Complete() {
			kids = append(kids, models.Child{ID: k.ID, FirstName: strings.TrimSpace(k.FirstName), BirthYear: k.BirthYear})
		}
	}

	grid := make(map[string][]string, len(f.Schedule))
	for day, blocks := range f.Schedule {
		grid[day] = append([]string{}, blocks...)
	}

	p := &models.SeekerProfile{
		ID:              identityID,
		FirstName:       strings.TrimSpace(b.Contact.FirstName),
		LastName:        strings.TrimSpace(b.Contact.LastName),
		Email:           strings.TrimSpace(b.Contact.Email),
		Phone:           strings.TrimSpace(b.Contact.Phone),
		ZipCode:         strings.TrimSpace(b.Contact.ZipCode),
		Neighborhood:    strings.TrimSpace(b.Contact.Neighborhood),
		CareNeeds:       nonNil(f.CareNeeds),
		Schedule:        models.Schedule{Flexible: f.ScheduleFlexible, Grid: grid},
		Kids:            kids,
		NumKids:         len(kids),
		Expecting:       f.Expecting,
		HostingInterest: f.HostingInterest,
		JustExploring:   sets.Contains(f.CareNeeds, careNeedExploring),
		Vetting:         vet,
		Bio:             fallbackBio(f.CareNeeds, labels),
		ProfileComplete: true,
		UpdatedAt:       now,
	}
	if f.Expecting {
		p.ExpectingTiming = strings.TrimSpace(f.ExpectingTiming)
	}
	if b.Scratch.SomethingElseActive {
		p.OtherNeeds = strings.TrimSpace(f.SomethingElse)
	}
	return p
}

// buildProviderProfile projects the providing branch into its payload. Every
// certification starts unverified and the provider starts pending review.
func buildProviderProfile(identityID string, b models.ProvidingBranch, now time.Time) *models.ProviderProfile {
	f := b.Fields
	certs := make([]models.Certification, 0, len(f.Certifications))
	for _, name := range f.Certifications {
		certs = append(certs, models.Certification{Name: name, Verified: false})
	}
	return &models.ProviderProfile{
		ID:               identityID,
		FirstName:        strings.TrimSpace(b.Contact.FirstName),
		LastName:         strings.TrimSpace(b.Contact.LastName),
		Email:            strings.TrimSpace(b.Contact.Email),
		Phone:            strings.TrimSpace(b.Contact.Phone),
		ZipCode:          strings.TrimSpace(b.Contact.ZipCode),
		Neighborhood:     strings.TrimSpace(b.Contact.Neighborhood),
		RoleType:         f.RoleType,
		SecondaryRoles:   nonNil(f.SecondaryRoles),
		YearsExperience:  f.YearsExperience,
		AgeGroups:        nonNil(f.AgeGroups),
		Certifications:   certs,
		Logistics:        nonNil(f.Logistics),
		Bio:              strings.TrimSpace(f.Bio),
		HourlyRate:       strings.TrimSpace(f.HourlyRate),
		AvailabilityType: f.AvailabilityType,
		ScheduleNotes:    strings.TrimSpace(f.ScheduleNotes),
		VettingStatus:    models.VettingStatusPending,
		UpdatedAt:        now,
	}
}

// fallbackBio lists the selected care needs by label.
func fallbackBio(careNeeds []string, labels *catalog.Catalog) string {
	names := make([]string, 0, len(careNeeds))
	for _, need := range careNeeds {
		names = append(names, labels.Label(catalog.GroupCareNeeds, need))
	}
	return "Looking for: " + strings.Join(names, ", ")
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return append([]string{}, values...)
}
