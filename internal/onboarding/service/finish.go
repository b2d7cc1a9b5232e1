package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	"village/internal/onboarding/models"
	"village/internal/onboarding/validator"
	"village/internal/onboarding/vetting"
	"village/internal/platform/middleware"
	id "village/pkg/domain"
	dErrors "village/pkg/domain-errors"
	audit "village/pkg/platform/audit"
	"village/pkg/requestcontext"
)

const (
	resultSuccess      = "success"
	resultInvalid      = "invalid"
	resultCorrupt      = "corrupt_state"
	resultWriteFailure = "write_failure"
)

// FinishResult is returned by a successful Finish.
type FinishResult struct {
	Intent  models.Intent
	Vetting models.VettingRequirement
	Profile models.Profile
}

// Finish submits the draft. In order: resolve the branch, validate every step
// of it, update the identity best-effort, build the payload, upsert it, then
// clear the draft slot and emit the completion event. Every failure before the
// upsert succeeds leaves the slot untouched.
func (s *Service) Finish(ctx context.Context, creds Credentials) (*FinishResult, error) {
	identityID, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	if _, busy := s.inflight.LoadOrStore(identityID, struct{}{}); busy {
		return nil, dErrors.New(dErrors.CodeConflict, "onboarding submission already in progress")
	}
	defer s.inflight.Delete(identityID)

	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "onboarding.finish")
	defer span.End()

	rec, found, err := s.load(ctx, identityID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !found {
		return nil, dErrors.New(dErrors.CodeNotFound, "no onboarding draft to submit")
	}
	draft := rec.Data
	draft.Password = creds.Password

	branch, err := draft.Branch()
	if err != nil {
		s.logger.ErrorContext(ctx, "onboarding finish with unresolved branch",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", identityID.String(),
			"intent", string(draft.Intent),
			"step", rec.Step,
		)
		s.metrics.ObserveFinish(string(draft.Intent), resultCorrupt, time.Since(start))
		span.SetStatus(codes.Error, "unresolved branch")
		return nil, err
	}
	intent := branch.Intent()
	span.SetAttributes(attribute.String("onboarding.intent", string(intent)))

	if step, missing, ok := validator.FirstIncomplete(draft, creds.Confirmation); !ok {
		s.logger.InfoContext(ctx, "onboarding finish rejected",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", identityID.String(),
			"intent", string(intent),
			"step", step,
		)
		s.metrics.ObserveFinish(string(intent), resultInvalid, time.Since(start))
		return nil, dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("step %d is incomplete: %s", step, strings.Join(missing, ", ")))
	}

	s.syncIdentity(ctx, identityID, draft)

	now := requestcontext.Now(ctx)
	var (
		profile models.Profile
		vet     models.VettingRequirement
	)
	switch b := branch.(type) {
	case models.SeekingBranch:
		vet = vetting.Determine(draft, b.Fields.HostingInterest)
		profile = buildSeekerProfile(identityID.String(), b, vet, s.catalog, now)
	case models.ProvidingBranch:
		vet = vetting.Determine(draft, draft.Seeking.HostingInterest)
		profile = buildProviderProfile(identityID.String(), b, now)
	}

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		s.logger.ErrorContext(ctx, "onboarding profile upsert failed",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", identityID.String(),
			"intent", string(intent),
			"error", err,
		)
		s.metrics.ObserveFinish(string(intent), resultWriteFailure, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "profile upsert failed")
		s.emit(ctx, audit.Event{
			IdentityID: identityID,
			Action:     string(audit.EventOnboardingFinishFailed),
			Intent:     string(intent),
			Reason:     "profile_write_failed",
		})
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "your profile could not be saved, please try again")
	}

	if err := s.drafts.Clear(ctx, identityID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear onboarding draft after submit",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", identityID.String(),
			"error", err,
		)
	}

	s.emit(ctx, audit.Event{
		IdentityID:   identityID,
		Action:       string(audit.EventOnboardingCompleted),
		Intent:       string(intent),
		VettingTypes: vet.Types,
		Decision:     fmt.Sprintf("vetting_required=%t", vet.Required),
	})
	s.metrics.ObserveFinish(string(intent), resultSuccess, time.Since(start))
	s.metrics.IncrementVettingTypes(vet.Types)
	s.logger.InfoContext(ctx, "onboarding completed",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", identityID.String(),
		"intent", string(intent),
		"vetting_required", vet.Required,
	)

	return &FinishResult{Intent: intent, Vetting: vet, Profile: profile}, nil
}

// syncIdentity records intent, names and the password hash with the identity
// provider. Failures are logged and never abort the submission.
func (s *Service) syncIdentity(ctx context.Context, identityID id.IdentityID, draft *models.Draft) {
	fields := map[string]any{"intent": string(draft.Intent)}
	if !models.IsEmpty(draft.FirstName) {
		fields["first_name"] = strings.TrimSpace(draft.FirstName)
	}
	if !models.IsEmpty(draft.LastName) {
		fields["last_name"] = strings.TrimSpace(draft.LastName)
	}

	var failures []string
	if err := s.identities.UpdateMetadata(ctx, identityID, fields); err != nil {
		s.logger.WarnContext(ctx, "identity metadata update failed",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", identityID.String(),
			"error", err,
		)
		failures = append(failures, "metadata")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(draft.Password), bcrypt.DefaultCost)
	if err == nil {
		err = s.identities.SetPasswordHash(ctx, identityID, string(hash))
	}
	if err != nil {
		s.logger.WarnContext(ctx, "identity password update failed",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", identityID.String(),
			"error", err,
		)
		failures = append(failures, "password")
	}

	if len(failures) > 0 {
		s.emit(ctx, audit.Event{
			IdentityID: identityID,
			Action:     string(audit.EventIdentitySyncFailed),
			Intent:     string(draft.Intent),
			Reason:     strings.Join(failures, ","),
		})
	}
}

// emit publishes an audit event. Publish failures are logged only.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	event.ClientIP = middleware.GetClientIP(ctx)
	event.UserAgent = middleware.GetUserAgent(ctx)
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit publish failed",
			"request_id", event.RequestID,
			"action", event.Action,
			"error", err,
		)
	}
}
