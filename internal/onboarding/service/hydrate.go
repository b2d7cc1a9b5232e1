package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"village/internal/onboarding/models"
	"village/internal/onboarding/prefill"
	"village/internal/onboarding/sequencer"
	id "village/pkg/domain"
	"village/pkg/platform/sentinel"
	"village/pkg/requestcontext"
)

// HydrationResult is the outcome of the session-start sequence.
type HydrationResult struct {
	*State
	Restored bool
	Prefill  prefill.Report
}

// Hydrate restores the draft, merges upstream records into it, restores the
// saved step over the position given on load, pins the step and saves.
func (s *Service) Hydrate(ctx context.Context, pos sequencer.Position) (*HydrationResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "onboarding.hydrate")
	defer span.End()
	defer func() { s.metrics.ObserveHydrateLatency(time.Since(start)) }()

	identityID, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	rec, restored, err := s.load(ctx, identityID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	draft := rec.Data

	session := s.session(ctx, identityID)
	sessionEmail := ""
	if session != nil {
		sessionEmail = session.Email
	}
	report := s.merger.Merge(ctx, draft, sessionEmail, s.sources(identityID, draft, session))

	seq := sequencer.New(pos)
	if restored {
		pos.Set(strconv.Itoa(rec.Step))
	}
	step := seq.Guard(draft.Intent)

	if err := s.save(ctx, identityID, step, draft); err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("onboarding.restored", restored),
		attribute.Int("onboarding.step", step),
		attribute.String("onboarding.intent", string(draft.Intent)),
		attribute.Int("onboarding.prefill.filled", len(report.Filled)),
	)
	s.logger.InfoContext(ctx, "onboarding hydrated",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", identityID.String(),
		"restored", restored,
		"step", step,
		"prefilled_fields", len(report.Filled),
	)

	return &HydrationResult{
		State:    s.state(seq, draft, ""),
		Restored: restored,
		Prefill:  report,
	}, nil
}

// session reads the identity's session. A failed read counts as no identity
// data; the request itself is already authenticated.
func (s *Service) session(ctx context.Context, identityID id.IdentityID) *models.Session {
	session, err := s.identities.GetSession(ctx, identityID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "identity session read failed",
				"request_id", requestcontext.RequestID(ctx),
				"user_id", identityID.String(),
				"error", err,
			)
			s.metrics.IncrementPrefillFailure(prefill.SourceIdentity)
		}
		return nil
	}
	return session
}

// sources builds the priority chain: existing profile, then the legacy record
// when contact fields are still missing, then identity metadata.
func (s *Service) sources(identityID id.IdentityID, draft *models.Draft, session *models.Session) []prefill.Source {
	profile := prefill.NewSource(prefill.SourceProfile,
		func(ctx context.Context) (*models.ExistingProfile, error) {
			return s.profiles.FindByIdentity(ctx, identityID)
		},
		prefill.FromProfile,
	)

	legacy := prefill.NewSource(prefill.SourceLegacy,
		func(ctx context.Context) (*models.LegacyRecord, error) {
			email := draft.Email
			if session != nil && !models.IsEmpty(session.Email) {
				email = session.Email
			}
			if models.IsEmpty(email) {
				return nil, sentinel.ErrNotFound
			}
			return s.legacy.FindByEmail(ctx, email)
		},
		prefill.FromLegacy,
	).When(prefill.MissingContact)

	identity := prefill.NewSource(prefill.SourceIdentity,
		func(context.Context) (*models.Session, error) {
			if session == nil {
				return nil, sentinel.ErrNotFound
			}
			return session, nil
		},
		prefill.FromSession,
	)

	return []prefill.Source{profile, legacy, identity}
}
