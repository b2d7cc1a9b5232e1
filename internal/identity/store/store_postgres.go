package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"village/internal/identity"
	id "village/pkg/domain"
	"village/pkg/platform/sentinel"
	"village/pkg/platform/tx"
)

// PostgresStore persists identities in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Save creates or replaces an identity.
func (s *PostgresStore) Save(ctx context.Context, ident *identity.Identity) error {
	meta, err := json.Marshal(orEmpty(ident.Metadata))
	if err != nil {
		return fmt.Errorf("encode identity metadata: %w", err)
	}
	query := `
		INSERT INTO identities (id, email, metadata, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $5)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			metadata = EXCLUDED.metadata,
			password_hash = EXCLUDED.password_hash,
			updated_at = EXCLUDED.updated_at
	`
	_, err = tx.Exec(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(ident.ID), strings.ToLower(ident.Email), string(meta), ident.PasswordHash, time.Now())
	if err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, identityID id.IdentityID) (*identity.Identity, error) {
	var (
		ident identity.Identity
		raw   uuid.UUID
		meta  []byte
		hash  sql.NullString
	)
	err := tx.Exec(ctx, s.db).QueryRowContext(ctx, `
		SELECT id, email, metadata, password_hash, created_at, updated_at
		FROM identities WHERE id = $1`, uuid.UUID(identityID),
	).Scan(&raw, &ident.Email, &meta, &hash, &ident.CreatedAt, &ident.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find identity: %w", err)
	}
	if err := json.Unmarshal(meta, &ident.Metadata); err != nil {
		return nil, fmt.Errorf("decode identity metadata: %w", err)
	}
	ident.ID = id.IdentityID(raw)
	ident.PasswordHash = hash.String
	return &ident, nil
}

// UpdateMetadata merges fields into the stored metadata; keys not named are
// kept.
func (s *PostgresStore) UpdateMetadata(ctx context.Context, identityID id.IdentityID, fields map[string]any) error {
	patch, err := json.Marshal(orEmpty(fields))
	if err != nil {
		return fmt.Errorf("encode identity metadata: %w", err)
	}
	res, err := tx.Exec(ctx, s.db).ExecContext(ctx, `
		UPDATE identities SET metadata = metadata || $2::jsonb, updated_at = $3
		WHERE id = $1`, uuid.UUID(identityID), string(patch), time.Now())
	if err != nil {
		return fmt.Errorf("update identity metadata: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) SetPasswordHash(ctx context.Context, identityID id.IdentityID, hash string) error {
	res, err := tx.Exec(ctx, s.db).ExecContext(ctx, `
		UPDATE identities SET password_hash = $2, updated_at = $3
		WHERE id = $1`, uuid.UUID(identityID), hash, time.Now())
	if err != nil {
		return fmt.Errorf("set identity password: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
