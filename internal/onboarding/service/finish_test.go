package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"village/internal/onboarding/models"
	"village/internal/onboarding/service/mocks"
	"village/internal/platform/middleware"
	id "village/pkg/domain"
	dErrors "village/pkg/domain-errors"
	audit "village/pkg/platform/audit"
	"village/pkg/platform/sentinel"
)

var validCreds = Credentials{Password: "abcdefgh", Confirmation: "abcdefgh"}

// submittableDraft passes every seeking step.
func submittableDraft() *models.Draft {
	d := seekingDraft()
	d.Seeking.CareNeeds = []string{"nanny-share"}
	return d
}

func (s *ServiceSuite) expectIdentitySync() {
	s.identities.EXPECT().UpdateMetadata(gomock.Any(), s.identityID, map[string]any{
		"intent": "seeking", "first_name": "Sam", "last_name": "Rivera",
	}).Return(nil)
	s.identities.EXPECT().SetPasswordHash(gomock.Any(), s.identityID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ id.IdentityID, hash string) error {
			s.NoError(bcrypt.CompareHashAndPassword([]byte(hash), []byte("abcdefgh")))
			return nil
		})
}

func (s *ServiceSuite) TestFinishSeekerSuccess() {
	d := seekingDraft()
	d.Seeking.CareNeeds = []string{"nanny-share", "host-share"}
	d.Seeking.Kids = []models.Child{
		{ID: "k1", FirstName: "Mia", BirthYear: "2021"},
		{ID: "k2", FirstName: "", BirthYear: "2023"},
	}
	s.seed(5, d)
	s.expectIdentitySync()

	ctx := middleware.WithClientMetadata(s.ctx, "203.0.113.9", "test-agent")
	res, err := s.service.Finish(ctx, validCreds)
	s.Require().NoError(err)

	s.Equal(models.IntentSeeking, res.Intent)
	s.Equal(models.VettingRequirement{Required: true, Types: []string{"host-share"}}, res.Vetting)

	stored, ok := s.profiles.Seeker(s.identityID)
	s.Require().True(ok)
	s.Equal(1, stored.NumKids)
	s.Equal("Looking for: Nanny Share, Host Nanny Share", stored.Bio)
	s.True(stored.ProfileComplete)
	s.Equal(res.Vetting, stored.Vetting)

	_, err = s.drafts.Load(context.Background(), s.identityID)
	s.ErrorIs(err, sentinel.ErrNotFound, "slot cleared after a confirmed save")

	events, err := s.audit.ListByIdentity(context.Background(), s.identityID)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(string(audit.EventOnboardingCompleted), events[0].Action)
	s.Equal([]string{"host-share"}, events[0].VettingTypes)
	s.Equal("req-test", events[0].RequestID)
	s.Equal("203.0.113.9", events[0].ClientIP)
}

func (s *ServiceSuite) TestFinishProviderSuccessReplacesSeekerRow() {
	s.Require().NoError(s.profiles.Upsert(context.Background(), &models.SeekerProfile{ID: s.identityID.String()}))

	d := seekingDraft()
	d.Intent = models.IntentProviding
	d.Providing.RoleType = "nanny"
	d.Providing.YearsExperience = "3-5"
	d.Providing.AvailabilityType = "part_time"
	d.Providing.Certifications = []string{"cpr", "first_aid"}
	s.seed(6, d)

	s.identities.EXPECT().UpdateMetadata(gomock.Any(), s.identityID, gomock.Any()).Return(nil)
	s.identities.EXPECT().SetPasswordHash(gomock.Any(), s.identityID, gomock.Any()).Return(nil)

	res, err := s.service.Finish(s.ctx, validCreds)
	s.Require().NoError(err)
	s.Equal([]string{"provider"}, res.Vetting.Types)

	provider, ok := s.profiles.Provider(s.identityID)
	s.Require().True(ok)
	s.Equal([]models.Certification{{Name: "cpr"}, {Name: "first_aid"}}, provider.Certifications)
	s.Equal(models.VettingStatusPending, provider.VettingStatus)

	_, ok = s.profiles.Seeker(s.identityID)
	s.False(ok, "no cross-branch record survives")
}

func (s *ServiceSuite) TestFinishIdentityFailureDoesNotAbort() {
	s.seed(5, submittableDraft())
	s.identities.EXPECT().UpdateMetadata(gomock.Any(), s.identityID, gomock.Any()).Return(sentinel.ErrUnavailable)
	s.identities.EXPECT().SetPasswordHash(gomock.Any(), s.identityID, gomock.Any()).Return(nil)

	_, err := s.service.Finish(s.ctx, validCreds)
	s.Require().NoError(err)

	_, ok := s.profiles.Seeker(s.identityID)
	s.True(ok)

	events, err := s.audit.ListAll(context.Background())
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(string(audit.EventIdentitySyncFailed), events[0].Action)
	s.Equal("metadata", events[0].Reason)
	s.Equal(string(audit.EventOnboardingCompleted), events[1].Action)
}

func (s *ServiceSuite) TestFinishWriteFailureLeavesSlotUnchanged() {
	profiles := mocks.NewMockProfileStore(s.ctrl)
	profiles.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
	svc := s.newService(profiles)

	s.seed(5, submittableDraft())
	before := s.slot()
	s.expectIdentitySync()

	_, err := svc.Finish(s.ctx, validCreds)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.Equal(before, s.slot(), "a failed finish never touches the draft")

	events, err := s.audit.ListAll(context.Background())
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(string(audit.EventOnboardingFinishFailed), events[0].Action)
}

func (s *ServiceSuite) TestFinishUnresolvedBranchWritesNothing() {
	d := seekingDraft()
	d.Intent = models.IntentUnset
	s.seed(0, d)
	before := s.slot()

	_, err := s.service.Finish(s.ctx, validCreds)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	s.Equal(before, s.slot())
	_, ok := s.profiles.Seeker(s.identityID)
	s.False(ok)
}

func (s *ServiceSuite) TestFinishInvalidAccountStep() {
	s.seed(5, submittableDraft())
	before := s.slot()

	_, err := s.service.Finish(s.ctx, Credentials{Password: "abcdefgh", Confirmation: "abcdefg1"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Contains(err.Error(), "password_confirmation")

	_, err = s.service.Finish(s.ctx, Credentials{Password: "short", Confirmation: "short"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	s.Equal(before, s.slot())
}

func (s *ServiceSuite) TestFinishRejectsSkippedSteps() {
	d := models.NewDraft()
	d.Intent = models.IntentSeeking
	s.seed(0, d)

	_, err := s.service.SetStep(s.ctx, at("0"), 5)
	s.Require().NoError(err)
	before := s.slot()

	_, err = s.service.Finish(s.ctx, validCreds)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Contains(err.Error(), "step 1")
	s.Contains(err.Error(), "first_name")

	_, ok := s.profiles.Seeker(s.identityID)
	s.False(ok, "nothing is written for an incomplete draft")
	s.Equal(before, s.slot())

	events, err := s.audit.ListAll(context.Background())
	s.Require().NoError(err)
	s.Empty(events)
}

func (s *ServiceSuite) TestFinishReportsFirstIncompleteStep() {
	s.seed(5, seekingDraft())

	_, err := s.service.Finish(s.ctx, validCreds)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Contains(err.Error(), "step 2 is incomplete: care_needs")
	_, ok := s.profiles.Seeker(s.identityID)
	s.False(ok)
}

func (s *ServiceSuite) TestFinishWithoutDraft() {
	_, err := s.service.Finish(s.ctx, validCreds)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestFinishRejectsConcurrentSubmit() {
	entered := make(chan struct{})
	release := make(chan struct{})
	profiles := mocks.NewMockProfileStore(s.ctrl)
	profiles.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, models.Profile) error {
		close(entered)
		<-release
		return nil
	})
	svc := s.newService(profiles)

	s.seed(5, submittableDraft())
	s.expectIdentitySync()

	done := make(chan error, 1)
	go func() {
		_, err := svc.Finish(s.ctx, validCreds)
		done <- err
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		s.FailNow("first submit never reached the upsert")
	}

	_, err := svc.Finish(s.ctx, validCreds)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	close(release)
	s.NoError(<-done)
}
