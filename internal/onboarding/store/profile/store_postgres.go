// Package profile stores completed onboarding profiles, one per identity.
package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"village/internal/onboarding/models"
	id "village/pkg/domain"
	"village/pkg/platform/sentinel"
	"village/pkg/platform/tx"
)

// PostgresStore persists completed profiles. Each identity has at most one
// profile across the two branch tables.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// FindByIdentity reads the identity's profile from whichever branch table
// holds it, mapped back onto draft field groups.
func (s *PostgresStore) FindByIdentity(ctx context.Context, identityID id.IdentityID) (*models.ExistingProfile, error) {
	q := tx.Exec(ctx, s.db)
	for _, find := range []func(context.Context, tx.Executor, uuid.UUID) (*models.ExistingProfile, error){
		findSeeker, findProvider,
	} {
		p, err := find(ctx, q, uuid.UUID(identityID))
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, sentinel.ErrNotFound
}

func findSeeker(ctx context.Context, q tx.Executor, identityID uuid.UUID) (*models.ExistingProfile, error) {
	p := models.ExistingProfile{Intent: models.IntentSeeking}
	f := &p.Seeking
	var schedule, kids []byte
	err := q.QueryRowContext(ctx, `
		SELECT first_name, last_name, phone, zip_code, neighborhood,
			care_needs, other_needs, schedule, kids, expecting_timing
		FROM seeker_profiles WHERE id = $1`,
		identityID,
	).Scan(&p.FirstName, &p.LastName, &p.Phone, &p.ZipCode, &p.Neighborhood,
		pq.Array(&f.CareNeeds), &f.SomethingElse, &schedule, &kids, &f.ExpectingTiming)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("find seeker_profiles: %w", err)
	}
	var sched models.Schedule
	if err := json.Unmarshal(schedule, &sched); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	f.Schedule = sched.Grid
	if err := json.Unmarshal(kids, &f.Kids); err != nil {
		return nil, fmt.Errorf("decode kids: %w", err)
	}
	return &p, nil
}

func findProvider(ctx context.Context, q tx.Executor, identityID uuid.UUID) (*models.ExistingProfile, error) {
	p := models.ExistingProfile{Intent: models.IntentProviding}
	f := &p.Providing
	var certs []byte
	err := q.QueryRowContext(ctx, `
		SELECT first_name, last_name, phone, zip_code, neighborhood,
			role_type, secondary_roles, years_experience, age_groups, certifications, logistics,
			bio, hourly_rate, availability_type, schedule_notes
		FROM provider_profiles WHERE id = $1`,
		identityID,
	).Scan(&p.FirstName, &p.LastName, &p.Phone, &p.ZipCode, &p.Neighborhood,
		&f.RoleType, pq.Array(&f.SecondaryRoles), &f.YearsExperience, pq.Array(&f.AgeGroups), &certs, pq.Array(&f.Logistics),
		&f.Bio, &f.HourlyRate, &f.AvailabilityType, &f.ScheduleNotes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("find provider_profiles: %w", err)
	}
	var decoded []models.Certification
	if err := json.Unmarshal(certs, &decoded); err != nil {
		return nil, fmt.Errorf("decode certifications: %w", err)
	}
	f.Certifications = models.CertificationNames(decoded)
	return &p, nil
}

// Upsert writes the profile and removes any profile of the other branch for
// the same identity, in one transaction.
func (s *PostgresStore) Upsert(ctx context.Context, p models.Profile) error {
	return tx.Run(ctx, s.db, func(ctx context.Context) error {
		q := tx.Exec(ctx, s.db)
		switch p := p.(type) {
		case *models.SeekerProfile:
			if err := upsertSeeker(ctx, q, p); err != nil {
				return err
			}
			return deleteFrom(ctx, q, "provider_profiles", p.ID)
		case *models.ProviderProfile:
			if err := upsertProvider(ctx, q, p); err != nil {
				return err
			}
			return deleteFrom(ctx, q, "seeker_profiles", p.ID)
		default:
			return fmt.Errorf("upsert profile: unsupported type %T", p)
		}
	})
}

func upsertSeeker(ctx context.Context, q tx.Executor, p *models.SeekerProfile) error {
	schedule, err := json.Marshal(p.Schedule)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	kids, err := json.Marshal(p.Kids)
	if err != nil {
		return fmt.Errorf("encode kids: %w", err)
	}
	query := `
		INSERT INTO seeker_profiles (
			id, first_name, last_name, email, phone, zip_code, neighborhood,
			care_needs, other_needs, schedule, kids, num_kids, expecting, expecting_timing,
			hosting_interest, just_exploring, vetting_required, vetting_types, bio,
			profile_complete, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			zip_code = EXCLUDED.zip_code,
			neighborhood = EXCLUDED.neighborhood,
			care_needs = EXCLUDED.care_needs,
			other_needs = EXCLUDED.other_needs,
			schedule = EXCLUDED.schedule,
			kids = EXCLUDED.kids,
			num_kids = EXCLUDED.num_kids,
			expecting = EXCLUDED.expecting,
			expecting_timing = EXCLUDED.expecting_timing,
			hosting_interest = EXCLUDED.hosting_interest,
			just_exploring = EXCLUDED.just_exploring,
			vetting_required = EXCLUDED.vetting_required,
			vetting_types = EXCLUDED.vetting_types,
			bio = EXCLUDED.bio,
			profile_complete = EXCLUDED.profile_complete,
			updated_at = EXCLUDED.updated_at
	`
	_, err = q.ExecContext(ctx, query,
		p.ID, p.FirstName, p.LastName, p.Email, p.Phone, p.ZipCode, p.Neighborhood,
		pq.Array(nonNil(p.CareNeeds)), p.OtherNeeds, string(schedule), string(kids), p.NumKids,
		p.Expecting, p.ExpectingTiming, p.HostingInterest, p.JustExploring,
		p.Vetting.Required, pq.Array(nonNil(p.Vetting.Types)), p.Bio, p.ProfileComplete, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert seeker profile: %w", err)
	}
	return nil
}

func upsertProvider(ctx context.Context, q tx.Executor, p *models.ProviderProfile) error {
	certs, err := json.Marshal(p.Certifications)
	if err != nil {
		return fmt.Errorf("encode certifications: %w", err)
	}
	query := `
		INSERT INTO provider_profiles (
			id, first_name, last_name, email, phone, zip_code, neighborhood,
			role_type, secondary_roles, years_experience, age_groups, certifications, logistics,
			bio, hourly_rate, availability_type, schedule_notes, vetting_status, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			zip_code = EXCLUDED.zip_code,
			neighborhood = EXCLUDED.neighborhood,
			role_type = EXCLUDED.role_type,
			secondary_roles = EXCLUDED.secondary_roles,
			years_experience = EXCLUDED.years_experience,
			age_groups = EXCLUDED.age_groups,
			certifications = EXCLUDED.certifications,
			logistics = EXCLUDED.logistics,
			bio = EXCLUDED.bio,
			hourly_rate = EXCLUDED.hourly_rate,
			availability_type = EXCLUDED.availability_type,
			schedule_notes = EXCLUDED.schedule_notes,
			vetting_status = EXCLUDED.vetting_status,
			updated_at = EXCLUDED.updated_at
	`
	_, err = q.ExecContext(ctx, query,
		p.ID, p.FirstName, p.LastName, p.Email, p.Phone, p.ZipCode, p.Neighborhood,
		p.RoleType, pq.Array(nonNil(p.SecondaryRoles)), p.YearsExperience, pq.Array(nonNil(p.AgeGroups)),
		string(certs), pq.Array(nonNil(p.Logistics)),
		p.Bio, p.HourlyRate, p.AvailabilityType, p.ScheduleNotes, p.VettingStatus, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert provider profile: %w", err)
	}
	return nil
}

func deleteFrom(ctx context.Context, q tx.Executor, table, identityID string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, identityID); err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
