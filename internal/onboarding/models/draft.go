package models

import (
	"strings"

	dErrors "village/pkg/domain-errors"
)

// Intent selects the branch of the wizard.
type Intent string

const (
	IntentUnset     Intent = ""
	IntentSeeking   Intent = "seeking"
	IntentProviding Intent = "providing"
)

func (i Intent) IsKnown() bool {
	return i == IntentSeeking || i == IntentProviding
}

// Contact holds the identity fields shared by both branches.
type Contact struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	ZipCode      string `json:"zip_code"`
	Neighborhood string `json:"neighborhood"`
}

// Child is one entry of the seeker's family list.
type Child struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	BirthYear string `json:"birth_year"`
}

// Complete reports whether the entry has a first name and a 4-digit birth year.
// It is independent of the family step's validity, which never blocks.
func (c Child) Complete() bool {
	if strings.TrimSpace(c.FirstName) == "" || len(c.BirthYear) != 4 {
		return false
	}
	for _, r := range c.BirthYear {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SeekingFields are collected only on the seeking branch.
type SeekingFields struct {
	CareNeeds        []string            `json:"care_needs"`
	SomethingElse    string              `json:"something_else_note"`
	Schedule         map[string][]string `json:"schedule"`
	ScheduleFlexible bool                `json:"schedule_flexible"`
	Kids             []Child             `json:"kids"`
	Expecting        bool                `json:"expecting"`
	ExpectingTiming  string              `json:"expecting_timing"`
	HostingInterest  bool                `json:"hosting_interest"`
}

// ProvidingFields are collected only on the providing branch.
type ProvidingFields struct {
	RoleType         string   `json:"role_type"`
	SecondaryRoles   []string `json:"secondary_roles"`
	YearsExperience  string   `json:"years_experience"`
	AgeGroups        []string `json:"age_groups"`
	Certifications   []string `json:"certifications"`
	Logistics        []string `json:"logistics"`
	Bio              string   `json:"bio"`
	HourlyRate       string   `json:"hourly_rate"`
	AvailabilityType string   `json:"availability_type"`
	ScheduleNotes    string   `json:"schedule_notes"`
}

// Scratch holds UI-only flags that never reach a payload.
type Scratch struct {
	SomethingElseActive bool `json:"something_else_active"`
}

// Draft is one user's in-progress intake.
//
// Invariants:
//   - Intent must be set before any branch-specific field counts as valid.
//   - Password is write-only: it is never serialized, so it never reaches the
//     draft slot and is never restored from it.
//   - Both field groups are retained while the intent changes; only the group
//     of the resolved branch is ever projected into a payload.
type Draft struct {
	Contact
	Intent    Intent          `json:"user_intent"`
	Seeking   SeekingFields   `json:"seeking"`
	Providing ProvidingFields `json:"providing"`
	Scratch   Scratch         `json:"scratch"`
	Password  string          `json:"-"`
}

// NewDraft returns the initial draft: schedule flexible by default, as the
// wizard presents it.
func NewDraft() *Draft {
	return &Draft{
		Seeking: SeekingFields{
			Schedule:         map[string][]string{},
			ScheduleFlexible: true,
		},
	}
}

// Clone returns a deep copy so pure functions can be checked for mutation.
func (d *Draft) Clone() *Draft {
	c := *d
	c.Seeking.CareNeeds = cloneStrings(d.Seeking.CareNeeds)
	c.Seeking.Kids = append([]Child(nil), d.Seeking.Kids...)
	if d.Seeking.Schedule != nil {
		c.Seeking.Schedule = make(map[string][]string, len(d.Seeking.Schedule))
		for day, blocks := range d.Seeking.Schedule {
			c.Seeking.Schedule[day] = cloneStrings(blocks)
		}
	}
	c.Providing.SecondaryRoles = cloneStrings(d.Providing.SecondaryRoles)
	c.Providing.AgeGroups = cloneStrings(d.Providing.AgeGroups)
	c.Providing.Certifications = cloneStrings(d.Providing.Certifications)
	c.Providing.Logistics = cloneStrings(d.Providing.Logistics)
	return &c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

// Branch is the resolved variant of a draft: SeekingBranch or ProvidingBranch.
// The marker method keeps the set closed to this package.
type Branch interface {
	Intent() Intent
	sealedBranch()
}

// SeekingBranch is the care-seeker projection of a draft.
type SeekingBranch struct {
	Contact Contact
	Fields  SeekingFields
	Scratch Scratch
}

// ProvidingBranch is the care-provider projection of a draft.
type ProvidingBranch struct {
	Contact Contact
	Fields  ProvidingFields
}

func (SeekingBranch) Intent() Intent   { return IntentSeeking }
func (ProvidingBranch) Intent() Intent { return IntentProviding }
func (SeekingBranch) sealedBranch()    {}
func (ProvidingBranch) sealedBranch()  {}

// Branch resolves the draft's variant. An unset or unknown intent is a
// corrupt state for anything past step 0.
func (d *Draft) Branch() (Branch, error) {
	switch d.Intent {
	case IntentSeeking:
		return SeekingBranch{Contact: d.Contact, Fields: d.Seeking, Scratch: d.Scratch}, nil
	case IntentProviding:
		return ProvidingBranch{Contact: d.Contact, Fields: d.Providing}, nil
	default:
		return nil, dErrors.New(dErrors.CodeInvalidState, "onboarding branch is not resolved")
	}
}
