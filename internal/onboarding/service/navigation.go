package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"village/internal/onboarding/models"
	"village/internal/onboarding/sequencer"
	"village/internal/onboarding/validator"
	dErrors "village/pkg/domain-errors"
	"village/pkg/requestcontext"
)

const (
	directionForward  = "forward"
	directionBackward = "backward"
	directionJump     = "jump"
)

// UpdateField applies one field edit, pins the step and saves.
// The password is only accepted by Validity, Advance and Finish.
func (s *Service) UpdateField(ctx context.Context, pos sequencer.Position, key string, value json.RawMessage) (*State, error) {
	if key == "password" {
		return nil, dErrors.New(dErrors.CodeValidation, "password is submitted with the account step, not stored in the draft")
	}
	identityID, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	rec, _, err := s.load(ctx, identityID)
	if err != nil {
		return nil, err
	}
	draft := rec.Data
	if err := draft.UpdateField(key, value, s.catalog); err != nil {
		return nil, err
	}

	seq := sequencer.New(pos)
	step := seq.Guard(draft.Intent)
	if err := s.save(ctx, identityID, step, draft); err != nil {
		return nil, err
	}
	return s.state(seq, draft, ""), nil
}

// Advance moves forward when the current step is valid. An invalid step is a
// validation error naming what is missing, and nothing is saved.
func (s *Service) Advance(ctx context.Context, pos sequencer.Position, creds Credentials) (*State, error) {
	identityID, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	rec, _, err := s.load(ctx, identityID)
	if err != nil {
		return nil, err
	}
	draft := rec.Data
	draft.Password = creds.Password

	seq := sequencer.New(pos)
	current := seq.Guard(draft.Intent)
	if missing := validator.Missing(current, draft, creds.Confirmation); len(missing) > 0 {
		return nil, dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("step %d is incomplete: %s", current, strings.Join(missing, ", ")))
	}

	step := seq.Advance(draft.Intent)
	if err := s.save(ctx, identityID, step, draft); err != nil {
		return nil, err
	}
	s.transition(ctx, directionForward, draft.Intent, current, step)
	return s.state(seq, draft, creds.Confirmation), nil
}

// Retreat moves back one step. It is never gated.
func (s *Service) Retreat(ctx context.Context, pos sequencer.Position) (*State, error) {
	identityID, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	rec, _, err := s.load(ctx, identityID)
	if err != nil {
		return nil, err
	}
	draft := rec.Data

	seq := sequencer.New(pos)
	from := seq.Guard(draft.Intent)
	step := seq.Retreat(draft.Intent)
	if err := s.save(ctx, identityID, step, draft); err != nil {
		return nil, err
	}
	s.transition(ctx, directionBackward, draft.Intent, from, step)
	return s.state(seq, draft, ""), nil
}

// SetStep jumps to n, as a deep link does. The guard still pins the result.
func (s *Service) SetStep(ctx context.Context, pos sequencer.Position, n int) (*State, error) {
	identityID, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	rec, _, err := s.load(ctx, identityID)
	if err != nil {
		return nil, err
	}
	draft := rec.Data

	seq := sequencer.New(pos)
	from := seq.Current()
	step := seq.SetStep(n, draft.Intent)
	if err := s.save(ctx, identityID, step, draft); err != nil {
		return nil, err
	}
	s.transition(ctx, directionJump, draft.Intent, from, step)
	return s.state(seq, draft, ""), nil
}

// Validity evaluates the current step without saving.
func (s *Service) Validity(ctx context.Context, pos sequencer.Position, creds Credentials) (*State, error) {
	identityID, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	rec, _, err := s.load(ctx, identityID)
	if err != nil {
		return nil, err
	}
	draft := rec.Data
	draft.Password = creds.Password

	seq := sequencer.New(pos)
	seq.Guard(draft.Intent)
	return s.state(seq, draft, creds.Confirmation), nil
}

func (s *Service) transition(ctx context.Context, direction string, intent models.Intent, from, to int) {
	if from == to {
		return
	}
	s.metrics.IncrementTransition(direction, string(intent))
	s.logger.DebugContext(ctx, "onboarding step changed",
		"request_id", requestcontext.RequestID(ctx),
		"direction", direction,
		"intent", string(intent),
		"from", from,
		"to", to,
	)
}
