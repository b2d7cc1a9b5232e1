package profile

import (
	"context"
	"fmt"
	"sync"

	"village/internal/onboarding/models"
	id "village/pkg/domain"
	"village/pkg/platform/sentinel"
)

// InMemoryStore keeps profiles in process for tests and local runs.
type InMemoryStore struct {
	mu        sync.RWMutex
	seekers   map[string]models.SeekerProfile
	providers map[string]models.ProviderProfile
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		seekers:   make(map[string]models.SeekerProfile),
		providers: make(map[string]models.ProviderProfile),
	}
}

func (s *InMemoryStore) FindByIdentity(_ context.Context, identityID id.IdentityID) (*models.ExistingProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := identityID.String()
	if p, ok := s.seekers[key]; ok {
		return &models.ExistingProfile{
			Intent: models.IntentSeeking, FirstName: p.FirstName, LastName: p.LastName,
			Phone: p.Phone, ZipCode: p.ZipCode, Neighborhood: p.Neighborhood,
			Seeking: models.SeekingFields{
				CareNeeds:       p.CareNeeds,
				SomethingElse:   p.OtherNeeds,
				Schedule:        p.Schedule.Grid,
				Kids:            p.Kids,
				ExpectingTiming: p.ExpectingTiming,
			},
		}, nil
	}
	if p, ok := s.providers[key]; ok {
		return &models.ExistingProfile{
			Intent: models.IntentProviding, FirstName: p.FirstName, LastName: p.LastName,
			Phone: p.Phone, ZipCode: p.ZipCode, Neighborhood: p.Neighborhood,
			Providing: models.ProvidingFields{
				RoleType:         p.RoleType,
				SecondaryRoles:   p.SecondaryRoles,
				YearsExperience:  p.YearsExperience,
				AgeGroups:        p.AgeGroups,
				Certifications:   models.CertificationNames(p.Certifications),
				Logistics:        p.Logistics,
				Bio:              p.Bio,
				HourlyRate:       p.HourlyRate,
				AvailabilityType: p.AvailabilityType,
				ScheduleNotes:    p.ScheduleNotes,
			},
		}, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) Upsert(_ context.Context, p models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch p := p.(type) {
	case *models.SeekerProfile:
		s.seekers[p.ID] = *p
		delete(s.providers, p.ID)
	case *models.ProviderProfile:
		s.providers[p.ID] = *p
		delete(s.seekers, p.ID)
	default:
		return fmt.Errorf("upsert profile: unsupported type %T", p)
	}
	return nil
}

// Seeker returns the stored seeker profile, if any.
func (s *InMemoryStore) Seeker(identityID id.IdentityID) (models.SeekerProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.seekers[identityID.String()]
	return p, ok
}

// Provider returns the stored provider profile, if any.
func (s *InMemoryStore) Provider(identityID id.IdentityID) (models.ProviderProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.providers[identityID.String()]
	return p, ok
}
