// Package service runs the onboarding wizard: hydrate, field edits, step
// navigation and the final save. Every operation reads the draft from its
// slot, applies one change, pins the step and writes the slot back.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"village/internal/onboarding/catalog"
	"village/internal/onboarding/draftstore"
	"village/internal/onboarding/metrics"
	"village/internal/onboarding/models"
	"village/internal/onboarding/prefill"
	"village/internal/onboarding/sequencer"
	"village/internal/onboarding/validator"
	"village/internal/onboarding/vetting"
	id "village/pkg/domain"
	dErrors "village/pkg/domain-errors"
	audit "village/pkg/platform/audit"
	"village/pkg/platform/sentinel"
	"village/pkg/requestcontext"
)

// DraftStore keeps the per-identity {step, draft} slot.
type DraftStore interface {
	Save(ctx context.Context, identityID id.IdentityID, step int, draft *models.Draft) error
	Load(ctx context.Context, identityID id.IdentityID) (*draftstore.Record, error)
	Clear(ctx context.Context, identityID id.IdentityID) error
}

// ProfileStore reads and upserts output payloads keyed by identity.
type ProfileStore interface {
	FindByIdentity(ctx context.Context, identityID id.IdentityID) (*models.ExistingProfile, error)
	Upsert(ctx context.Context, profile models.Profile) error
}

// LegacyStore reads pre-registration records.
type LegacyStore interface {
	FindByEmail(ctx context.Context, email string) (*models.LegacyRecord, error)
}

// IdentityProvider is the session and account collaborator.
type IdentityProvider interface {
	GetSession(ctx context.Context, identityID id.IdentityID) (*models.Session, error)
	UpdateMetadata(ctx context.Context, identityID id.IdentityID, fields map[string]any) error
	SetPasswordHash(ctx context.Context, identityID id.IdentityID, hash string) error
}

// AuditPublisher emits audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// State is what every wizard operation returns.
type State struct {
	Step      int
	Bookmark  string
	Draft     *models.Draft
	Vetting   models.VettingRequirement
	StepValid bool
	Missing   []string
}

// Credentials carries the account-step values, which never live in the slot.
type Credentials struct {
	Password     string
	Confirmation string
}

// Service wires the onboarding components to their collaborators.
type Service struct {
	drafts     DraftStore
	profiles   ProfileStore
	legacy     LegacyStore
	identities IdentityProvider
	auditor    AuditPublisher

	merger  *prefill.Merger
	catalog *catalog.Catalog
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer

	inflight sync.Map
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) { s.catalog = c }
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

func New(drafts DraftStore, profiles ProfileStore, legacy LegacyStore, identities IdentityProvider, opts ...Option) *Service {
	s := &Service{
		drafts:     drafts,
		profiles:   profiles,
		legacy:     legacy,
		identities: identities,
		logger:     slog.Default(),
		tracer:     otel.Tracer("village/onboarding"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalog == nil {
		s.catalog = catalog.Default()
	}
	s.merger = prefill.NewMerger(prefill.WithLogger(s.logger), prefill.WithMetrics(s.metrics))
	return s
}

// Options returns the selectable values per field group.
func (s *Service) Options() map[string][]catalog.Option {
	return s.catalog.All()
}

func requireIdentity(ctx context.Context) (id.IdentityID, error) {
	identityID := requestcontext.IdentityID(ctx)
	if identityID.IsNil() {
		return id.IdentityID{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return identityID, nil
}

// load reads the slot. An empty slot starts a fresh draft and a corrupt one is
// replaced by a fresh draft; any other read failure aborts so that a later save
// cannot overwrite a draft that merely could not be read.
func (s *Service) load(ctx context.Context, identityID id.IdentityID) (*draftstore.Record, bool, error) {
	rec, err := s.drafts.Load(ctx, identityID)
	switch {
	case err == nil:
		return rec, true, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return &draftstore.Record{Data: models.NewDraft()}, false, nil
	case errors.Is(err, draftstore.ErrCorrupt):
		s.logger.WarnContext(ctx, "discarding corrupt onboarding draft",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", identityID.String(),
		)
		return &draftstore.Record{Data: models.NewDraft()}, false, nil
	default:
		return nil, false, dErrors.Wrap(err, dErrors.CodeUnavailable, "onboarding draft is temporarily unavailable")
	}
}

func (s *Service) save(ctx context.Context, identityID id.IdentityID, step int, draft *models.Draft) error {
	if err := s.drafts.Save(ctx, identityID, step, draft); err != nil {
		s.logger.ErrorContext(ctx, "failed to save onboarding draft",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", identityID.String(),
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "onboarding draft could not be saved")
	}
	return nil
}

// state evaluates the derived values for the draft at step.
func (s *Service) state(seq *sequencer.Sequencer, draft *models.Draft, confirmation string) *State {
	step := seq.Current()
	return &State{
		Step:      step,
		Bookmark:  seq.Bookmark(),
		Draft:     draft,
		Vetting:   vetting.Determine(draft, draft.Seeking.HostingInterest),
		StepValid: validator.IsStepValid(step, draft, confirmation),
		Missing:   validator.Missing(step, draft, confirmation),
	}
}
