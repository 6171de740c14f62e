package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/simmerkit/recipe-vault/internal/api/metrics"
	"github.com/simmerkit/recipe-vault/internal/core/domain"
	"github.com/simmerkit/recipe-vault/internal/core/service"
)

// OnboardingHandler exposes the first-run flow to the mobile client. All
// endpoints are pre-auth (onboarding ends at registration) and are keyed
// by the device profile header.
type OnboardingHandler struct {
	profiles *service.ProfileManager
}

func NewOnboardingHandler(profiles *service.ProfileManager) *OnboardingHandler {
	return &OnboardingHandler{profiles: profiles}
}

// State returns the hydrated flow status: screen to present, cursor, and
// progress. The reset query flag wipes persisted progress at most once
// per server-side profile lifetime, mirroring the client's one-shot dev
// reset.
//
// @Summary      Get the onboarding flow state
// @Tags         onboarding
// @Produce      json
// @Param        X-Profile-ID  header  string  true   "Device profile id"
// @Param        reset         query   string  false  "Set to 1 to reset progress (dev only)"
// @Success      200  {object}  service.FlowStatus
// @Failure      400  {object}  errorResponse
// @Router       /v1/onboarding [get]
func (h *OnboardingHandler) State(c echo.Context) error {
	profileID, err := ctxProfileID(c)
	if err != nil {
		return err
	}

	reset := c.QueryParam("reset") == "1"
	if reset {
		metrics.OnboardingResetsTotal.Inc()
	}

	profile, err := h.profiles.Get(c.Request().Context(), profileID, reset)
	if err != nil {
		return err
	}

	status, err := profile.Flow.Status()
	if err != nil {
		return err
	}
	if status.Fallback {
		metrics.OnboardingFallbackTotal.Inc()
	}
	return c.JSON(http.StatusOK, status)
}

// Advance applies one screen callback to the flow and returns the new
// status. Disabled import methods are accepted and ignored; the response
// simply shows the unchanged screen.
//
// @Summary      Advance the onboarding flow
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        X-Profile-ID  header  string          true  "Device profile id"
// @Param        body          body    advanceRequest  true  "Flow action"
// @Success      200  {object}  service.FlowStatus
// @Failure      400  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/onboarding/advance [post]
func (h *OnboardingHandler) Advance(c echo.Context) error {
	profileID, err := ctxProfileID(c)
	if err != nil {
		return err
	}

	var req advanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	ctx := c.Request().Context()
	profile, err := h.profiles.Get(ctx, profileID, false)
	if err != nil {
		return err
	}

	before, err := profile.Flow.Status()
	if err != nil {
		return err
	}

	var status service.FlowStatus
	switch req.Action {
	case actionContinueWelcome:
		status, err = profile.Flow.ContinueWelcome(ctx)
	case actionSubmitIdentity:
		status, err = profile.Flow.SubmitIdentity(ctx, req.Selected)
	case actionChooseAddRecipe:
		status, err = profile.Flow.ChooseAddRecipe(ctx)
	case actionChooseSkip:
		status, err = profile.Flow.ChooseSkip(ctx)
	case actionSelectMethod:
		status, err = profile.Flow.SelectImportMethod(ctx, domain.ImportMethod(req.Method))
	case actionContinueImports:
		status, err = profile.Flow.ContinueImportSources(ctx)
	case actionAddRecipeNow:
		status, err = profile.Flow.AddRecipeNow(ctx)
	case actionGoHome:
		status, err = profile.Flow.GoHome(ctx)
	case actionRecipeSaved:
		status, err = profile.Flow.RecipeSaved(ctx)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown action")
	}
	if err != nil {
		return err
	}

	if status.Step != before.Step || status.Path != before.Path {
		metrics.OnboardingStepsTotal.WithLabelValues(string(status.Path), string(status.Screen)).Inc()
	}
	if status.Completed && !before.Completed {
		metrics.OnboardingCompletedTotal.WithLabelValues(string(status.Path)).Inc()
	}

	return c.JSON(http.StatusOK, status)
}

// Reset wipes persisted onboarding progress for the profile. Unlike the
// one-shot query flag this endpoint always resets; it is the explicit
// "start over" entry point.
//
// @Summary      Reset onboarding progress
// @Tags         onboarding
// @Produce      json
// @Param        X-Profile-ID  header  string  true  "Device profile id"
// @Success      200  {object}  service.FlowStatus
// @Failure      400  {object}  errorResponse
// @Router       /v1/onboarding/reset [post]
func (h *OnboardingHandler) Reset(c echo.Context) error {
	profileID, err := ctxProfileID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	profile, err := h.profiles.Get(ctx, profileID, false)
	if err != nil {
		return err
	}

	if err := profile.Tracker.Reset(ctx); err != nil {
		return err
	}
	if err := profile.Flow.Hydrate(ctx, false); err != nil {
		return err
	}
	metrics.OnboardingResetsTotal.Inc()

	status, err := profile.Flow.Status()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, status)
}

// Route runs the root redirect gate for the device: wait, main, login, or
// onboarding.
//
// @Summary      Decide the initial route for the device
// @Tags         onboarding
// @Produce      json
// @Param        X-Profile-ID  header  string  true  "Device profile id"
// @Success      200  {object}  routeResponse
// @Failure      400  {object}  errorResponse
// @Router       /v1/route [get]
func (h *OnboardingHandler) Route(c echo.Context) error {
	profileID, err := ctxProfileID(c)
	if err != nil {
		return err
	}

	profile, err := h.profiles.Get(c.Request().Context(), profileID, false)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, routeResponse{Route: string(profile.Route())})
}
