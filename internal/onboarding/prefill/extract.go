package prefill

import (
	"strings"

	"village/internal/onboarding/models"
)

// FromProfile extracts a candidate from a stored profile.
func FromProfile(p *models.ExistingProfile) Candidate {
	if p == nil {
		return Candidate{}
	}
	// Copy through Clone so filling a draft never aliases the store's slices.
	branch := (&models.Draft{Seeking: p.Seeking, Providing: p.Providing}).Clone()
	return Candidate{
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Phone:        p.Phone,
		ZipCode:      p.ZipCode,
		Neighborhood: p.Neighborhood,
		Seeking:      branch.Seeking,
		Providing:    branch.Providing,
		IntentHints:  []string{string(p.Intent)},
	}
}

// FromLegacy extracts a candidate from a pre-registration record.
func FromLegacy(r *models.LegacyRecord) Candidate {
	if r == nil {
		return Candidate{}
	}
	return Candidate{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Phone:       r.Phone,
		ZipCode:     r.ZipCode,
		IntentHints: []string{r.Role},
	}
}

// FromSession extracts a candidate from identity-provider metadata. When no
// first name is recorded, full_name is split on its first space.
func FromSession(s *models.Session) Candidate {
	if s == nil {
		return Candidate{}
	}
	meta := s.Metadata
	c := Candidate{
		FirstName: metaString(meta, "first_name"),
		LastName:  metaString(meta, "last_name"),
		Phone:     metaString(meta, "phone"),
		ZipCode:   metaString(meta, "zip_code"),
	}
	if c.FirstName == "" {
		if full := strings.Fields(metaString(meta, "full_name")); len(full) > 0 {
			c.FirstName = full[0]
			if c.LastName == "" && len(full) > 1 {
				c.LastName = strings.Join(full[1:], " ")
			}
		}
	}
	for _, key := range []string{"user_intent", "intent", "role"} {
		if hint := metaString(meta, key); hint != "" {
			c.IntentHints = append(c.IntentHints, hint)
		}
	}
	return c
}

func metaString(meta map[string]any, key string) string {
	v, ok := meta[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}
