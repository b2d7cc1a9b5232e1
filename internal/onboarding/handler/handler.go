package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"village/internal/onboarding/catalog"
	"village/internal/onboarding/sequencer"
	"village/internal/onboarding/service"
	"village/internal/platform/metrics"
	"village/internal/platform/middleware"
	dErrors "village/pkg/domain-errors"
	"village/pkg/platform/httputil"
	"village/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the interface for onboarding operations.
type Service interface {
	Hydrate(ctx context.Context, pos sequencer.Position) (*service.HydrationResult, error)
	UpdateField(ctx context.Context, pos sequencer.Position, key string, value json.RawMessage) (*service.State, error)
	Advance(ctx context.Context, pos sequencer.Position, creds service.Credentials) (*service.State, error)
	Retreat(ctx context.Context, pos sequencer.Position) (*service.State, error)
	SetStep(ctx context.Context, pos sequencer.Position, n int) (*service.State, error)
	Validity(ctx context.Context, pos sequencer.Position, creds service.Credentials) (*service.State, error)
	Finish(ctx context.Context, creds service.Credentials) (*service.FinishResult, error)
	Options() map[string][]catalog.Option
}

// Handler handles onboarding wizard endpoints.
type Handler struct {
	logger        *slog.Logger
	onboarding    Service
	metrics       *metrics.Metrics
	jwtValidator  middleware.JWTValidator
	finishTimeout time.Duration
}

// New creates a new onboarding Handler.
func New(
	onboarding Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator,
	finishTimeout time.Duration) *Handler {
	if finishTimeout <= 0 {
		finishTimeout = 15 * time.Second
	}
	return &Handler{
		logger:        logger,
		onboarding:    onboarding,
		metrics:       metrics,
		jwtValidator:  jwtValidator,
		finishTimeout: finishTimeout,
	}
}

// Register registers the onboarding routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	onboardingRouter := chi.NewRouter()
	onboardingRouter.Use(middleware.Recovery(h.logger))
	onboardingRouter.Use(middleware.RequestID)
	onboardingRouter.Use(middleware.Logger(h.logger))
	onboardingRouter.Use(middleware.Timeout(30 * time.Second))
	onboardingRouter.Use(middleware.ContentTypeJSON)
	onboardingRouter.Use(middleware.LatencyMiddleware(h.metrics))
	onboardingRouter.Use(middleware.ClientMetadata)
	onboardingRouter.Get("/onboarding/options", h.handleOptions)

	onboardingRouter.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Get("/onboarding", h.handleHydrate)
		r.Patch("/onboarding/fields", h.handleUpdateField)
		r.Post("/onboarding/advance", h.handleAdvance)
		r.Post("/onboarding/retreat", h.handleRetreat)
		r.Put("/onboarding/step", h.handleSetStep)
		r.Post("/onboarding/validity", h.handleValidity)
		r.Post("/onboarding/finish", h.handleFinish)
	})

	r.Mount("/", onboardingRouter)
}

func position(r *http.Request) *sequencer.QueryPosition {
	return sequencer.NewQueryPosition(r.URL.Query())
}

func (h *Handler) handleHydrate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := h.onboarding.Hydrate(ctx, position(r))
	if err != nil {
		h.writeError(ctx, w, "hydrate", err)
		return
	}
	resp := HydrateResponse{
		StateResponse: toStateResponse(res.State),
		Restored:      res.Restored,
		Prefilled:     res.Prefill.Filled,
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleUpdateField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req UpdateFieldRequest
	if err := h.decode(ctx, r, &req, true); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	st, err := h.onboarding.UpdateField(ctx, position(r), req.Key, req.Value)
	if err != nil {
		h.writeError(ctx, w, "update field", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStateResponse(st))
}

func (h *Handler) handleAdvance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req CredentialsRequest
	if err := h.decode(ctx, r, &req, false); err != nil {
		httputil.WriteError(w, err)
		return
	}
	st, err := h.onboarding.Advance(ctx, position(r), req.credentials())
	if err != nil {
		h.writeError(ctx, w, "advance", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStateResponse(st))
}

func (h *Handler) handleRetreat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st, err := h.onboarding.Retreat(ctx, position(r))
	if err != nil {
		h.writeError(ctx, w, "retreat", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStateResponse(st))
}

func (h *Handler) handleSetStep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req SetStepRequest
	if err := h.decode(ctx, r, &req, true); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	st, err := h.onboarding.SetStep(ctx, position(r), *req.Step)
	if err != nil {
		h.writeError(ctx, w, "set step", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStateResponse(st))
}

func (h *Handler) handleValidity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req CredentialsRequest
	if err := h.decode(ctx, r, &req, false); err != nil {
		httputil.WriteError(w, err)
		return
	}
	st, err := h.onboarding.Validity(ctx, position(r), req.credentials())
	if err != nil {
		h.writeError(ctx, w, "validity", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStateResponse(st))
}

func (h *Handler) handleFinish(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.finishTimeout)
	defer cancel()

	var req CredentialsRequest
	if err := h.decode(ctx, r, &req, true); err != nil {
		httputil.WriteError(w, err)
		return
	}
	res, err := h.onboarding.Finish(ctx, req.credentials())
	if err != nil {
		h.writeError(ctx, w, "finish", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FinishResponse{
		Intent:  res.Intent,
		Vetting: res.Vetting,
		Profile: res.Profile,
	})
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.onboarding.Options())
}

// decode reads a JSON body into v. An empty body is accepted unless required.
func (h *Handler) decode(ctx context.Context, r *http.Request, v any, required bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) && !required {
		return nil
	}
	if err != nil {
		h.logger.WarnContext(ctx, "invalid onboarding request body",
			"request_id", requestcontext.RequestID(ctx),
			"path", r.URL.Path,
			"error", err.Error(),
		)
		return dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	return nil
}

// writeError logs server-side failures and writes the error envelope.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	de, ok := dErrors.From(err)
	switch {
	case !ok || de.Code == dErrors.CodeInternal || de.Code == dErrors.CodeUnavailable || de.Code == dErrors.CodeInvalidState:
		h.logger.ErrorContext(ctx, "onboarding "+op+" failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
	default:
		h.logger.InfoContext(ctx, "onboarding "+op+" rejected",
			"request_id", requestcontext.RequestID(ctx),
			"code", string(de.Code),
		)
	}
	httputil.WriteError(w, err)
}
