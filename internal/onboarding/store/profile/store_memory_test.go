package profile

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"village/internal/onboarding/models"
	id "village/pkg/domain"
	"village/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	ctx      context.Context
	store    *InMemoryStore
	identity id.IdentityID
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemory()
	s.identity = id.IdentityID(uuid.New())
}

func (s *InMemoryStoreSuite) TestFindMissing() {
	_, err := s.store.FindByIdentity(s.ctx, s.identity)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestUpsertReplaces() {
	s.Require().NoError(s.store.Upsert(s.ctx, &models.SeekerProfile{ID: s.identity.String(), FirstName: "Sam"}))
	s.Require().NoError(s.store.Upsert(s.ctx, &models.SeekerProfile{ID: s.identity.String(), FirstName: "Samuel"}))

	found, err := s.store.FindByIdentity(s.ctx, s.identity)
	s.Require().NoError(err)
	s.Equal("Samuel", found.FirstName)
	s.Equal(models.IntentSeeking, found.Intent)
}

func (s *InMemoryStoreSuite) TestBranchSwitchRemovesOtherProfile() {
	s.Require().NoError(s.store.Upsert(s.ctx, &models.SeekerProfile{ID: s.identity.String(), FirstName: "Sam"}))
	s.Require().NoError(s.store.Upsert(s.ctx, &models.ProviderProfile{ID: s.identity.String(), FirstName: "Sam", RoleType: "nanny"}))

	_, isSeeker := s.store.Seeker(s.identity)
	provider, isProvider := s.store.Provider(s.identity)
	s.False(isSeeker)
	s.True(isProvider)
	s.Equal("nanny", provider.RoleType)

	found, err := s.store.FindByIdentity(s.ctx, s.identity)
	s.Require().NoError(err)
	s.Equal(models.IntentProviding, found.Intent)
}

func (s *InMemoryStoreSuite) TestFindCarriesBranchAnswers() {
	s.Require().NoError(s.store.Upsert(s.ctx, &models.SeekerProfile{
		ID:         s.identity.String(),
		CareNeeds:  []string{"carpool"},
		OtherNeeds: "weekend swaps",
		Schedule:   models.Schedule{Flexible: true, Grid: map[string][]string{"mon": {"morning"}}},
	}))
	found, err := s.store.FindByIdentity(s.ctx, s.identity)
	s.Require().NoError(err)
	s.Equal([]string{"carpool"}, found.Seeking.CareNeeds)
	s.Equal("weekend swaps", found.Seeking.SomethingElse)
	s.Equal(map[string][]string{"mon": {"morning"}}, found.Seeking.Schedule)

	s.Require().NoError(s.store.Upsert(s.ctx, &models.ProviderProfile{
		ID:             s.identity.String(),
		RoleType:       "nanny",
		Certifications: []models.Certification{{Name: "cpr", Verified: true}, {Name: "first_aid"}},
	}))
	found, err = s.store.FindByIdentity(s.ctx, s.identity)
	s.Require().NoError(err)
	s.Equal("nanny", found.Providing.RoleType)
	s.Equal([]string{"cpr", "first_aid"}, found.Providing.Certifications)
	s.Empty(found.Seeking.CareNeeds)
}
