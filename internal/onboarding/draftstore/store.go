// Package draftstore keeps each identity's in-progress draft and step in a
// durable key-value slot. Writes are unconditional overwrites; reconciling
// with upstream data happens at load time, in prefill.
package draftstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"village/internal/onboarding/models"
	id "village/pkg/domain"
	"village/pkg/platform/sentinel"
)

const keyPrefix = "onboarding:draft:"

// KV is the durable slot backing the store. Get returns sentinel.ErrNotFound
// for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Record is what one slot holds.
type Record struct {
	Step int           `json:"step"`
	Data *models.Draft `json:"data"`
}

// ErrCorrupt marks a slot whose content cannot be decoded.
var ErrCorrupt = fmt.Errorf("draft record is corrupt: %w", sentinel.ErrInvalidState)

type Store struct {
	kv KV
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

// Key returns the slot key for an identity.
func Key(identityID id.IdentityID) string {
	return keyPrefix + identityID.String()
}

// Save overwrites the identity's slot. The draft's password is never written.
func (s *Store) Save(ctx context.Context, identityID id.IdentityID, step int, draft *models.Draft) error {
	payload, err := json.Marshal(Record{Step: step, Data: draft})
	if err != nil {
		return fmt.Errorf("encode draft record: %w", err)
	}
	if err := s.kv.Set(ctx, Key(identityID), string(payload)); err != nil {
		return fmt.Errorf("save draft record: %w", err)
	}
	return nil
}

// Load returns the identity's record, sentinel.ErrNotFound when the slot is
// empty, or ErrCorrupt when it cannot be decoded.
func (s *Store) Load(ctx context.Context, identityID id.IdentityID) (*Record, error) {
	raw, err := s.kv.Get(ctx, Key(identityID))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load draft record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.Data == nil || rec.Step < 0 {
		return nil, ErrCorrupt
	}
	if rec.Data.Seeking.Schedule == nil {
		rec.Data.Seeking.Schedule = map[string][]string{}
	}
	return &rec, nil
}

// Clear removes the identity's slot. Only a confirmed successful finish
// calls it.
func (s *Store) Clear(ctx context.Context, identityID id.IdentityID) error {
	if err := s.kv.Remove(ctx, Key(identityID)); err != nil {
		return fmt.Errorf("clear draft record: %w", err)
	}
	return nil
}
