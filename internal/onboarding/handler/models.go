package handler

import (
	"encoding/json"

	"village/internal/onboarding/models"
	"village/internal/onboarding/service"
	dErrors "village/pkg/domain-errors"
)

// UpdateFieldRequest is the body of PATCH /onboarding/fields.
type UpdateFieldRequest struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

func (r *UpdateFieldRequest) Validate() error {
	if r.Key == "" {
		return dErrors.New(dErrors.CodeBadRequest, "key is required")
	}
	if len(r.Value) == 0 {
		r.Value = json.RawMessage("null")
	}
	return nil
}

// CredentialsRequest carries the account-step values.
type CredentialsRequest struct {
	Password     string `json:"password"`
	Confirmation string `json:"confirmation"`
}

func (r CredentialsRequest) credentials() service.Credentials {
	return service.Credentials{Password: r.Password, Confirmation: r.Confirmation}
}

// SetStepRequest is the body of PUT /onboarding/step.
type SetStepRequest struct {
	Step *int `json:"step"`
}

func (r *SetStepRequest) Validate() error {
	if r.Step == nil {
		return dErrors.New(dErrors.CodeBadRequest, "step is required")
	}
	return nil
}

// StateResponse is returned by every wizard operation.
type StateResponse struct {
	Step      int                       `json:"step"`
	StepName  string                    `json:"step_name"`
	LastStep  int                       `json:"last_step"`
	Bookmark  string                    `json:"bookmark"`
	Draft     *models.Draft             `json:"draft"`
	Vetting   models.VettingRequirement `json:"vetting"`
	StepValid bool                      `json:"step_valid"`
	Missing   []string                  `json:"missing,omitempty"`
}

// HydrateResponse adds the hydrate outcome to the state.
type HydrateResponse struct {
	StateResponse
	Restored  bool              `json:"restored"`
	Prefilled map[string]string `json:"prefilled"`
}

// FinishResponse confirms a completed onboarding.
type FinishResponse struct {
	Intent  models.Intent             `json:"user_intent"`
	Vetting models.VettingRequirement `json:"vetting"`
	Profile models.Profile            `json:"profile"`
}

func toStateResponse(st *service.State) StateResponse {
	return StateResponse{
		Step:      st.Step,
		StepName:  models.StepName(st.Draft.Intent, st.Step),
		LastStep:  models.LastStep(st.Draft.Intent),
		Bookmark:  st.Bookmark,
		Draft:     st.Draft,
		Vetting:   st.Vetting,
		StepValid: st.StepValid,
		Missing:   st.Missing,
	}
}
