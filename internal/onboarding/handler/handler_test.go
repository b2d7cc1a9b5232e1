package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"village/internal/jwt_token"
	"village/internal/onboarding/catalog"
	"village/internal/onboarding/handler/mocks"
	"village/internal/onboarding/models"
	"village/internal/onboarding/prefill"
	"village/internal/onboarding/sequencer"
	"village/internal/onboarding/service"
	id "village/pkg/domain"
	dErrors "village/pkg/domain-errors"
	"village/pkg/requestcontext"
)

type OnboardingHandlerSuite struct {
	suite.Suite
	router     chi.Router
	service    *mocks.MockService
	identityID id.IdentityID
	token      string
}

func TestOnboardingHandlerSuite(t *testing.T) {
	suite.Run(t, new(OnboardingHandlerSuite))
}

func (s *OnboardingHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.T().Cleanup(ctrl.Finish)
	s.service = mocks.NewMockService(ctrl)

	jwtService := jwt_token.NewJWTService("handler-test-key", "village")
	s.identityID = id.IdentityID(uuid.New())
	token, err := jwtService.GenerateAccessToken(s.identityID, "sam@example.com", time.Hour)
	s.Require().NoError(err)
	s.token = token

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(s.service, logger, nil, jwt_token.NewJWTServiceAdapter(jwtService), 0)
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *OnboardingHandlerSuite) do(method, target string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func seekingState(step int) *service.State {
	draft := models.NewDraft()
	draft.Intent = models.IntentSeeking
	draft.FirstName = "Sam"
	return &service.State{
		Step:      step,
		Bookmark:  "?step=" + strconv.Itoa(step),
		Draft:     draft,
		Vetting:   models.VettingRequirement{Types: []string{}},
		StepValid: true,
	}
}

func (s *OnboardingHandlerSuite) TestHydrate() {
	s.Run("reads the step from the query and reports the restore", func() {
		s.service.EXPECT().Hydrate(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, pos sequencer.Position) (*service.HydrationResult, error) {
				s.Equal("2", pos.Get())
				s.Equal(s.identityID, requestcontext.IdentityID(ctx))
				return &service.HydrationResult{
					State:    seekingState(2),
					Restored: true,
					Prefill:  prefill.Report{Filled: map[string]string{"first_name": "profile"}},
				}, nil
			})

		w := s.do(http.MethodGet, "/onboarding?step=2", nil)
		s.Equal(http.StatusOK, w.Code)
		body := decodeBody(s.T(), w)
		s.Equal(float64(2), body["step"])
		s.Equal("care_needs", body["step_name"])
		s.Equal(float64(models.SeekingStepAccount), body["last_step"])
		s.Equal(true, body["restored"])
		s.Equal("profile", body["prefilled"].(map[string]any)["first_name"])
		draft := body["draft"].(map[string]any)
		s.Equal("Sam", draft["first_name"])
		s.NotContains(draft, "password")
	})

	s.Run("missing token is rejected before the service", func() {
		token := s.token
		s.token = ""
		defer func() { s.token = token }()

		w := s.do(http.MethodGet, "/onboarding", nil)
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("store outage maps to 503", func() {
		s.service.EXPECT().Hydrate(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeUnavailable, "draft could not be loaded"))

		w := s.do(http.MethodGet, "/onboarding", nil)
		s.Equal(http.StatusServiceUnavailable, w.Code)
		s.Equal("service_unavailable", decodeBody(s.T(), w)["error"])
	})
}

func (s *OnboardingHandlerSuite) TestUpdateField() {
	s.Run("passes the raw value through", func() {
		s.service.EXPECT().UpdateField(gomock.Any(), gomock.Any(), "care_needs", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ sequencer.Position, _ string, value json.RawMessage) (*service.State, error) {
				s.JSONEq(`["host-share"]`, string(value))
				return seekingState(2), nil
			})

		w := s.do(http.MethodPatch, "/onboarding/fields?step=2", map[string]any{"key": "care_needs", "value": []string{"host-share"}})
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("absent value clears the field", func() {
		s.service.EXPECT().UpdateField(gomock.Any(), gomock.Any(), "phone", json.RawMessage("null")).
			Return(seekingState(1), nil)

		w := s.do(http.MethodPatch, "/onboarding/fields", map[string]any{"key": "phone"})
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("missing key", func() {
		w := s.do(http.MethodPatch, "/onboarding/fields", map[string]any{"value": "x"})
		s.Equal(http.StatusBadRequest, w.Code)
		s.Equal("key is required", decodeBody(s.T(), w)["error_description"])
	})

	s.Run("malformed body", func() {
		req := httptest.NewRequest(http.MethodPatch, "/onboarding/fields", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+s.token)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("rejected value maps to 422", func() {
		s.service.EXPECT().UpdateField(gomock.Any(), gomock.Any(), "role_type", gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeValidation, `unknown roles option "pilot"`))

		w := s.do(http.MethodPatch, "/onboarding/fields", map[string]any{"key": "role_type", "value": "pilot"})
		s.Equal(http.StatusUnprocessableEntity, w.Code)
	})
}

func (s *OnboardingHandlerSuite) TestAdvance() {
	s.Run("empty body advances with no credentials", func() {
		s.service.EXPECT().Advance(gomock.Any(), gomock.Any(), service.Credentials{}).
			Return(seekingState(3), nil)

		w := s.do(http.MethodPost, "/onboarding/advance?step=2", nil)
		s.Equal(http.StatusOK, w.Code)
		s.Equal(float64(3), decodeBody(s.T(), w)["step"])
	})

	s.Run("credentials are forwarded", func() {
		creds := service.Credentials{Password: "hunter22!", Confirmation: "hunter22!"}
		s.service.EXPECT().Advance(gomock.Any(), gomock.Any(), creds).Return(seekingState(5), nil)

		w := s.do(http.MethodPost, "/onboarding/advance?step=5", CredentialsRequest{Password: creds.Password, Confirmation: creds.Confirmation})
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("incomplete step is 422", func() {
		s.service.EXPECT().Advance(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeValidation, "step 1 is incomplete: zip_code"))

		w := s.do(http.MethodPost, "/onboarding/advance?step=1", nil)
		s.Equal(http.StatusUnprocessableEntity, w.Code)
		s.Equal("step 1 is incomplete: zip_code", decodeBody(s.T(), w)["error_description"])
	})
}

func (s *OnboardingHandlerSuite) TestRetreatAndSetStep() {
	s.Run("retreat", func() {
		s.service.EXPECT().Retreat(gomock.Any(), gomock.Any()).Return(seekingState(1), nil)
		w := s.do(http.MethodPost, "/onboarding/retreat?step=2", nil)
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("set step", func() {
		s.service.EXPECT().SetStep(gomock.Any(), gomock.Any(), 4).Return(seekingState(4), nil)
		w := s.do(http.MethodPut, "/onboarding/step", map[string]int{"step": 4})
		s.Equal(http.StatusOK, w.Code)
		s.Equal("family", decodeBody(s.T(), w)["step_name"])
	})

	s.Run("set step requires a step", func() {
		w := s.do(http.MethodPut, "/onboarding/step", map[string]any{})
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *OnboardingHandlerSuite) TestValidity() {
	st := seekingState(5)
	st.StepValid = false
	st.Missing = []string{"password"}
	s.service.EXPECT().Validity(gomock.Any(), gomock.Any(), service.Credentials{Password: "short"}).Return(st, nil)

	w := s.do(http.MethodPost, "/onboarding/validity?step=5", CredentialsRequest{Password: "short"})
	s.Equal(http.StatusOK, w.Code)
	body := decodeBody(s.T(), w)
	s.Equal(false, body["step_valid"])
	s.Equal([]any{"password"}, body["missing"])
}

func (s *OnboardingHandlerSuite) TestFinish() {
	s.Run("returns the written profile", func() {
		profile := &models.SeekerProfile{ID: s.identityID.String(), FirstName: "Sam", Vetting: models.VettingRequirement{Required: true, Types: []string{"host-share"}}}
		s.service.EXPECT().Finish(gomock.Any(), service.Credentials{Password: "hunter22!", Confirmation: "hunter22!"}).
			DoAndReturn(func(ctx context.Context, _ service.Credentials) (*service.FinishResult, error) {
				_, ok := ctx.Deadline()
				s.True(ok)
				return &service.FinishResult{Intent: models.IntentSeeking, Vetting: profile.Vetting, Profile: profile}, nil
			})

		w := s.do(http.MethodPost, "/onboarding/finish", CredentialsRequest{Password: "hunter22!", Confirmation: "hunter22!"})
		s.Equal(http.StatusOK, w.Code)
		body := decodeBody(s.T(), w)
		s.Equal("seeking", body["user_intent"])
		s.Equal(true, body["vetting"].(map[string]any)["required"])
		s.Equal("Sam", body["profile"].(map[string]any)["first_name"])
	})

	s.Run("requires a body", func() {
		w := s.do(http.MethodPost, "/onboarding/finish", nil)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("concurrent submit is 409", func() {
		s.service.EXPECT().Finish(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConflict, "onboarding is already being submitted"))

		w := s.do(http.MethodPost, "/onboarding/finish", CredentialsRequest{})
		s.Equal(http.StatusConflict, w.Code)
	})

	s.Run("failed write is 503 with a retry message", func() {
		s.service.EXPECT().Finish(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeUnavailable, "your profile could not be saved, please try again"))

		w := s.do(http.MethodPost, "/onboarding/finish", CredentialsRequest{})
		s.Equal(http.StatusServiceUnavailable, w.Code)
		s.Equal("your profile could not be saved, please try again", decodeBody(s.T(), w)["error_description"])
	})
}

func (s *OnboardingHandlerSuite) TestOptionsIsPublic() {
	s.token = ""
	s.service.EXPECT().Options().Return(catalog.Default().All())

	w := s.do(http.MethodGet, "/onboarding/options", nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	body := decodeBody(s.T(), w)
	assert.Contains(s.T(), body, catalog.GroupCareNeeds)
}
