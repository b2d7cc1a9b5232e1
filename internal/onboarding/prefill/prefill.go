// Package prefill reconciles upstream records into a draft without ever
// overwriting a value the draft already holds.
package prefill

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"village/internal/onboarding/metrics"
	"village/internal/onboarding/models"
	"village/pkg/platform/sentinel"
	"village/pkg/requestcontext"
)

// Source names.
const (
	SourceProfile  = "profile"
	SourceLegacy   = "legacy"
	SourceIdentity = "identity"
)

// Candidate is what one source offers for a draft.
type Candidate struct {
	FirstName    string
	LastName     string
	Phone        string
	ZipCode      string
	Neighborhood string
	// Seeking and Providing carry branch answers; only a stored profile
	// supplies them. Boolean answers are never taken: false is a real answer
	// and cannot be told apart from one never given.
	Seeking   models.SeekingFields
	Providing models.ProvidingFields
	// IntentHints are upstream role/intent words, mapped through the fixed
	// vocabulary in order.
	IntentHints []string
}

// Source is one entry of the priority chain.
type Source struct {
	Name string
	// Needed decides, against the draft as merged so far, whether the source
	// is queried at all. Nil means always.
	Needed func(d *models.Draft) bool
	Fetch  func(ctx context.Context) (Candidate, bool, error)
}

// NewSource pairs a fetch function with the extractor that turns its record
// into a candidate. A sentinel.ErrNotFound from fetch means no record.
func NewSource[T any](name string, fetch func(ctx context.Context) (T, error), extract func(T) Candidate) Source {
	return Source{
		Name: name,
		Fetch: func(ctx context.Context) (Candidate, bool, error) {
			rec, err := fetch(ctx)
			if errors.Is(err, sentinel.ErrNotFound) {
				return Candidate{}, false, nil
			}
			if err != nil {
				return Candidate{}, false, err
			}
			return extract(rec), true, nil
		},
	}
}

// When returns a copy of s that is only queried when needed reports true.
func (s Source) When(needed func(d *models.Draft) bool) Source {
	s.Needed = needed
	return s
}

// field binds a draft field to the candidate value that can fill it. fill
// reports whether it wrote.
type field struct {
	name string
	fill func(d *models.Draft, c Candidate) bool
}

// bind fills the draft field only when it is empty and the candidate's value
// is not.
func bind[T any](name string, draft func(d *models.Draft) *T, value func(c Candidate) T) field {
	return field{name: name, fill: func(d *models.Draft, c Candidate) bool {
		target, v := draft(d), value(c)
		if !models.IsEmpty(*target) || models.IsEmpty(v) {
			return false
		}
		*target = v
		return true
	}}
}

func text(name string, draft func(d *models.Draft) *string, value func(c Candidate) string) field {
	return bind(name, draft, func(c Candidate) string { return strings.TrimSpace(value(c)) })
}

var fields = []field{
	text("first_name", func(d *models.Draft) *string { return &d.FirstName }, func(c Candidate) string { return c.FirstName }),
	text("last_name", func(d *models.Draft) *string { return &d.LastName }, func(c Candidate) string { return c.LastName }),
	text("phone", func(d *models.Draft) *string { return &d.Phone }, func(c Candidate) string { return c.Phone }),
	text("zip_code", func(d *models.Draft) *string { return &d.ZipCode }, func(c Candidate) string { return c.ZipCode }),
	text("neighborhood", func(d *models.Draft) *string { return &d.Neighborhood }, func(c Candidate) string { return c.Neighborhood }),

	bind("care_needs", func(d *models.Draft) *[]string { return &d.Seeking.CareNeeds }, func(c Candidate) []string { return c.Seeking.CareNeeds }),
	somethingElse,
	bind("schedule", func(d *models.Draft) *map[string][]string { return &d.Seeking.Schedule }, func(c Candidate) map[string][]string { return c.Seeking.Schedule }),
	bind("kids", func(d *models.Draft) *[]models.Child { return &d.Seeking.Kids }, func(c Candidate) []models.Child { return c.Seeking.Kids }),
	text("expecting_timing", func(d *models.Draft) *string { return &d.Seeking.ExpectingTiming }, func(c Candidate) string { return c.Seeking.ExpectingTiming }),

	text("role_type", func(d *models.Draft) *string { return &d.Providing.RoleType }, func(c Candidate) string { return c.Providing.RoleType }),
	bind("secondary_roles", func(d *models.Draft) *[]string { return &d.Providing.SecondaryRoles }, func(c Candidate) []string { return c.Providing.SecondaryRoles }),
	text("years_experience", func(d *models.Draft) *string { return &d.Providing.YearsExperience }, func(c Candidate) string { return c.Providing.YearsExperience }),
	bind("age_groups", func(d *models.Draft) *[]string { return &d.Providing.AgeGroups }, func(c Candidate) []string { return c.Providing.AgeGroups }),
	bind("certifications", func(d *models.Draft) *[]string { return &d.Providing.Certifications }, func(c Candidate) []string { return c.Providing.Certifications }),
	bind("logistics", func(d *models.Draft) *[]string { return &d.Providing.Logistics }, func(c Candidate) []string { return c.Providing.Logistics }),
	text("bio", func(d *models.Draft) *string { return &d.Providing.Bio }, func(c Candidate) string { return c.Providing.Bio }),
	text("hourly_rate", func(d *models.Draft) *string { return &d.Providing.HourlyRate }, func(c Candidate) string { return c.Providing.HourlyRate }),
	text("availability_type", func(d *models.Draft) *string { return &d.Providing.AvailabilityType }, func(c Candidate) string { return c.Providing.AvailabilityType }),
	text("schedule_notes", func(d *models.Draft) *string { return &d.Providing.ScheduleNotes }, func(c Candidate) string { return c.Providing.ScheduleNotes }),
}

// A stored note implies the toggle was on when it was saved.
var somethingElse = field{name: "something_else_note", fill: func(d *models.Draft, c Candidate) bool {
	note := strings.TrimSpace(c.Seeking.SomethingElse)
	if !models.IsEmpty(d.Seeking.SomethingElse) || note == "" {
		return false
	}
	d.Seeking.SomethingElse = note
	d.Scratch.SomethingElseActive = true
	return true
}}

var intentVocabulary = map[string]models.Intent{
	"parent":     models.IntentSeeking,
	"family":     models.IntentSeeking,
	"seeking":    models.IntentSeeking,
	"seeker":     models.IntentSeeking,
	"caregiver":  models.IntentProviding,
	"nanny":      models.IntentProviding,
	"babysitter": models.IntentProviding,
	"provider":   models.IntentProviding,
	"providing":  models.IntentProviding,
	"au_pair":    models.IntentProviding,
}

// MapIntent maps an upstream role or intent word onto a branch.
func MapIntent(hint string) models.Intent {
	return intentVocabulary[strings.ToLower(strings.TrimSpace(hint))]
}

// MissingContact reports whether any of the fields the legacy record can
// supply is still empty.
func MissingContact(d *models.Draft) bool {
	return models.IsEmpty(d.FirstName) || models.IsEmpty(d.LastName) ||
		models.IsEmpty(d.ZipCode) || models.IsEmpty(d.Phone)
}

// Report describes what a merge did.
type Report struct {
	Filled  map[string]string // field -> source
	Skipped []string          // sources not queried
	Failed  []string          // sources whose read failed
}

// Merger applies the priority chain.
type Merger struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Merger)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Merger) { m.logger = logger }
}

func WithMetrics(metrics *metrics.Metrics) Option {
	return func(m *Merger) { m.metrics = metrics }
}

func NewMerger(opts ...Option) *Merger {
	m := &Merger{logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge fills empty draft fields from sources, reduced left to right. A field
// already holding a value is never touched, so merging twice equals merging
// once. sessionEmail fills an empty email directly, outside the chain. Read
// failures are logged and treated as no data from that source.
func (m *Merger) Merge(ctx context.Context, draft *models.Draft, sessionEmail string, sources []Source) Report {
	report := Report{Filled: map[string]string{}}

	if models.IsEmpty(draft.Email) && !models.IsEmpty(sessionEmail) {
		draft.Email = strings.TrimSpace(sessionEmail)
		report.Filled["email"] = SourceIdentity
	}

	for _, src := range sources {
		if src.Needed != nil && !src.Needed(draft) {
			report.Skipped = append(report.Skipped, src.Name)
			continue
		}
		cand, ok, err := src.Fetch(ctx)
		if err != nil {
			m.logger.WarnContext(ctx, "prefill source failed",
				"source", src.Name,
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
			m.metrics.IncrementPrefillFailure(src.Name)
			report.Failed = append(report.Failed, src.Name)
			continue
		}
		if !ok {
			continue
		}
		m.metrics.AddPrefillFields(src.Name, apply(draft, cand, src.Name, report.Filled))
	}
	return report
}

func apply(draft *models.Draft, cand Candidate, source string, filled map[string]string) int {
	n := 0
	for _, f := range fields {
		if f.fill(draft, cand) {
			filled[f.name] = source
			n++
		}
	}
	if draft.Intent == models.IntentUnset {
		for _, hint := range cand.IntentHints {
			if intent := MapIntent(hint); intent != models.IntentUnset {
				draft.Intent = intent
				filled["user_intent"] = source
				n++
				break
			}
		}
	}
	return n
}
