package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	dErrors "village/pkg/domain-errors"
	"village/pkg/platform/sets"
)

// MaxBioLength bounds the provider bio.
const MaxBioLength = 500

// OptionChecker validates choice-valued input against the static option sets.
type OptionChecker interface {
	Allowed(group string, values ...string) error
}

type fieldSetter func(d *Draft, raw json.RawMessage, opts OptionChecker) error

// fieldSetters is the closed set of keys accepted by UpdateField.
var fieldSetters = map[string]fieldSetter{
	"first_name":    stringField("first_name", func(d *Draft) *string { return &d.FirstName }),
	"last_name":     stringField("last_name", func(d *Draft) *string { return &d.LastName }),
	"email":         stringField("email", func(d *Draft) *string { return &d.Email }),
	"phone":         stringField("phone", func(d *Draft) *string { return &d.Phone }),
	"zip_code":      stringField("zip_code", func(d *Draft) *string { return &d.ZipCode }),
	"neighborhood":  stringField("neighborhood", func(d *Draft) *string { return &d.Neighborhood }),
	"user_intent":   setIntent,
	"password":      setPassword,

	"care_needs":            setField("care_needs", func(d *Draft) *[]string { return &d.Seeking.CareNeeds }, "care_needs"),
	"something_else_note":   stringField("something_else_note", func(d *Draft) *string { return &d.Seeking.SomethingElse }),
	"schedule":              setSchedule,
	"schedule_flexible":     boolField("schedule_flexible", func(d *Draft) *bool { return &d.Seeking.ScheduleFlexible }),
	"kids":                  setKids,
	"expecting":             boolField("expecting", func(d *Draft) *bool { return &d.Seeking.Expecting }),
	"expecting_timing":      stringField("expecting_timing", func(d *Draft) *string { return &d.Seeking.ExpectingTiming }),
	"hosting_interest":      boolField("hosting_interest", func(d *Draft) *bool { return &d.Seeking.HostingInterest }),
	"something_else_active": boolField("something_else_active", func(d *Draft) *bool { return &d.Scratch.SomethingElseActive }),

	"role_type":         choiceField("role_type", func(d *Draft) *string { return &d.Providing.RoleType }, "roles"),
	"secondary_roles":   setField("secondary_roles", func(d *Draft) *[]string { return &d.Providing.SecondaryRoles }, "roles"),
	"years_experience":  choiceField("years_experience", func(d *Draft) *string { return &d.Providing.YearsExperience }, "years_experience"),
	"age_groups":        setField("age_groups", func(d *Draft) *[]string { return &d.Providing.AgeGroups }, "age_groups"),
	"certifications":    setField("certifications", func(d *Draft) *[]string { return &d.Providing.Certifications }, "certifications"),
	"logistics":         setField("logistics", func(d *Draft) *[]string { return &d.Providing.Logistics }, "logistics"),
	"bio":               stringField("bio", func(d *Draft) *string { return &d.Providing.Bio }),
	"hourly_rate":       stringField("hourly_rate", func(d *Draft) *string { return &d.Providing.HourlyRate }),
	"availability_type": choiceField("availability_type", func(d *Draft) *string { return &d.Providing.AvailabilityType }, "availability_types"),
	"schedule_notes":    stringField("schedule_notes", func(d *Draft) *string { return &d.Providing.ScheduleNotes }),
}

// FieldKeys lists the keys accepted by UpdateField.
func FieldKeys() []string {
	keys := make([]string, 0, len(fieldSetters))
	for k := range fieldSetters {
		keys = append(keys, k)
	}
	return keys
}

// UpdateField is the single setter for the draft. value is the JSON encoding
// of the new value; opts may be nil to skip option checks. On error the draft
// is left unchanged.
func (d *Draft) UpdateField(key string, value json.RawMessage, opts OptionChecker) error {
	set, ok := fieldSetters[key]
	if !ok {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown field %q", key))
	}
	next := d.Clone()
	if err := set(next, value, opts); err != nil {
		return err
	}
	*d = *next
	return nil
}

func decode(key string, raw json.RawMessage, into any) error {
	if err := json.Unmarshal(raw, into); err != nil {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("invalid value for %s", key))
	}
	return nil
}

func check(opts OptionChecker, group string, values ...string) error {
	if opts == nil || len(values) == 0 {
		return nil
	}
	return opts.Allowed(group, values...)
}

func stringField(key string, target func(*Draft) *string) fieldSetter {
	return func(d *Draft, raw json.RawMessage, _ OptionChecker) error {
		var v string
		if err := decode(key, raw, &v); err != nil {
			return err
		}
		*target(d) = v
		return nil
	}
}

func boolField(key string, target func(*Draft) *bool) fieldSetter {
	return func(d *Draft, raw json.RawMessage, _ OptionChecker) error {
		var v bool
		if err := decode(key, raw, &v); err != nil {
			return err
		}
		*target(d) = v
		return nil
	}
}

func choiceField(key string, target func(*Draft) *string, group string) fieldSetter {
	return func(d *Draft, raw json.RawMessage, opts OptionChecker) error {
		var v string
		if err := decode(key, raw, &v); err != nil {
			return err
		}
		v = strings.TrimSpace(v)
		if v != "" {
			if err := check(opts, group, v); err != nil {
				return err
			}
		}
		*target(d) = v
		return nil
	}
}

func setField(key string, target func(*Draft) *[]string, group string) fieldSetter {
	return func(d *Draft, raw json.RawMessage, opts OptionChecker) error {
		var v []string
		if err := decode(key, raw, &v); err != nil {
			return err
		}
		v = sets.Normalize(v)
		if err := check(opts, group, v...); err != nil {
			return err
		}
		*target(d) = v
		return nil
	}
}

func setIntent(d *Draft, raw json.RawMessage, _ OptionChecker) error {
	var v string
	if err := decode("user_intent", raw, &v); err != nil {
		return err
	}
	intent := Intent(strings.TrimSpace(v))
	if intent != IntentUnset && !intent.IsKnown() {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown intent %q", v))
	}
	d.Intent = intent
	return nil
}

func setPassword(d *Draft, raw json.RawMessage, _ OptionChecker) error {
	var v string
	if err := decode("password", raw, &v); err != nil {
		return err
	}
	d.Password = v
	return nil
}

func setSchedule(d *Draft, raw json.RawMessage, opts OptionChecker) error {
	var v map[string][]string
	if err := decode("schedule", raw, &v); err != nil {
		return err
	}
	grid := make(map[string][]string, len(v))
	for day, blocks := range v {
		day = strings.ToLower(strings.TrimSpace(day))
		blocks = sets.Normalize(blocks)
		if len(blocks) == 0 {
			continue
		}
		if err := check(opts, "schedule_days", day); err != nil {
			return err
		}
		if err := check(opts, "schedule_blocks", blocks...); err != nil {
			return err
		}
		grid[day] = blocks
	}
	d.Seeking.Schedule = grid
	return nil
}

func setKids(d *Draft, raw json.RawMessage, _ OptionChecker) error {
	var v []Child
	if err := decode("kids", raw, &v); err != nil {
		return err
	}
	kids := make([]Child, 0, len(v))
	for _, k := range v {
		k.FirstName = strings.TrimSpace(k.FirstName)
		k.BirthYear = strings.TrimSpace(k.BirthYear)
		if k.ID == "" {
			k.ID = uuid.NewString()
		}
		kids = append(kids, k)
	}
	d.Seeking.Kids = kids
	return nil
}
