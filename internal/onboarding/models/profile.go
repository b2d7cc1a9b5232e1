package models

import "time"

// VettingRequirement is derived from a draft on every evaluation and persisted
// only as part of the seeker payload.
type VettingRequirement struct {
	Required bool     `json:"required"`
	Types    []string `json:"types"`
}

// Certification is a provider credential awaiting review.
type Certification struct {
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
}

// Schedule is the seeker's availability as persisted.
type Schedule struct {
	Flexible bool                `json:"flexible"`
	Grid     map[string][]string `json:"grid"`
}

// Profile is the output payload written by the save orchestrator.
// Implemented by *SeekerProfile and *ProviderProfile.
type Profile interface {
	ProfileIntent() Intent
	ProfileID() string
}

// SeekerProfile is the seeking-branch output payload.
type SeekerProfile struct {
	ID              string             `json:"id"`
	FirstName       string             `json:"first_name"`
	LastName        string             `json:"last_name"`
	Email           string             `json:"email"`
	Phone           string             `json:"phone"`
	ZipCode         string             `json:"zip_code"`
	Neighborhood    string             `json:"neighborhood"`
	CareNeeds       []string           `json:"care_needs"`
	OtherNeeds      string             `json:"other_needs,omitempty"`
	Schedule        Schedule           `json:"schedule_preferences"`
	Kids            []Child            `json:"kids"`
	NumKids         int                `json:"num_kids"`
	Expecting       bool               `json:"expecting"`
	ExpectingTiming string             `json:"expecting_timing,omitempty"`
	HostingInterest bool               `json:"hosting_interest"`
	JustExploring   bool               `json:"just_exploring"`
	Vetting         VettingRequirement `json:"vetting"`
	Bio             string             `json:"bio"`
	ProfileComplete bool               `json:"profile_complete"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// ProviderProfile is the providing-branch output payload.
type ProviderProfile struct {
	ID               string          `json:"id"`
	FirstName        string          `json:"first_name"`
	LastName         string          `json:"last_name"`
	Email            string          `json:"email"`
	Phone            string          `json:"phone"`
	ZipCode          string          `json:"zip_code"`
	Neighborhood     string          `json:"neighborhood"`
	RoleType         string          `json:"role_type"`
	SecondaryRoles   []string        `json:"secondary_roles"`
	YearsExperience  string          `json:"years_experience"`
	AgeGroups        []string        `json:"age_groups"`
	Certifications   []Certification `json:"certifications"`
	Logistics        []string        `json:"logistics"`
	Bio              string          `json:"bio"`
	HourlyRate       string          `json:"hourly_rate"`
	AvailabilityType string          `json:"availability_type"`
	ScheduleNotes    string          `json:"schedule_notes"`
	VettingStatus    string          `json:"vetting_status"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// VettingStatusPending is the initial review state of a new provider.
const VettingStatusPending = "pending"

func (p *SeekerProfile) ProfileIntent() Intent   { return IntentSeeking }
func (p *SeekerProfile) ProfileID() string       { return p.ID }
func (p *ProviderProfile) ProfileIntent() Intent { return IntentProviding }
func (p *ProviderProfile) ProfileID() string     { return p.ID }

// ExistingProfile is a stored profile read back as a prefill source, mapped
// back onto draft field groups. Only the group of Intent is populated.
// Certifications carry names only. OtherNeeds lands in Seeking.SomethingElse.
type ExistingProfile struct {
	Intent       Intent
	FirstName    string
	LastName     string
	Phone        string
	ZipCode      string
	Neighborhood string
	Seeking      SeekingFields
	Providing    ProvidingFields
}

// CertificationNames drops review state, keeping the ids a draft holds.
func CertificationNames(certs []Certification) []string {
	if len(certs) == 0 {
		return nil
	}
	names := make([]string, 0, len(certs))
	for _, c := range certs {
		names = append(names, c.Name)
	}
	return names
}

// LegacyRecord is a pre-registration (waitlist) entry.
type LegacyRecord struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
	ZipCode   string
	Role      string
}

// Session is the authenticated identity as the identity provider reports it.
type Session struct {
	ID       string
	Email    string
	Metadata map[string]any
}
