package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/simmerkit/recipe-vault/internal/core/domain"
)

// profileHeader carries the device profile id for the pre-auth onboarding
// surface. The mobile client generates it once per install.
const profileHeader = "X-Profile-ID"

// ctxIdentity extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: user_id must be
// non-empty (presence proves the middleware ran).
func ctxIdentity(c echo.Context) (userID string, plan domain.Plan, err error) {
	userID, _ = c.Get("user_id").(string)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	planStr, _ := c.Get("plan").(string)
	plan = domain.Plan(planStr)
	if plan != domain.PlanPremium {
		plan = domain.PlanFree
	}
	return userID, plan, nil
}

// ctxProfileID extracts the device profile id header used by the
// onboarding and routing endpoints.
func ctxProfileID(c echo.Context) (string, error) {
	id := c.Request().Header.Get(profileHeader)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "missing "+profileHeader+" header")
	}
	return id, nil
}
