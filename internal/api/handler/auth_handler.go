package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/simmerkit/recipe-vault/internal/core/domain"
	"github.com/simmerkit/recipe-vault/internal/core/ports"
	"github.com/simmerkit/recipe-vault/internal/core/service"
)

// AuthHandler handles account registration, login, and device logout.
// When the request carries a device profile header, login and register
// also run through that profile's session store, so a restarted client
// resumes logged in; the root redirect gate reads that state.
type AuthHandler struct {
	authService ports.AuthService
	profiles    *service.ProfileManager
}

func NewAuthHandler(authService ports.AuthService, profiles *service.ProfileManager) *AuthHandler {
	return &AuthHandler{authService: authService, profiles: profiles}
}

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// Register creates a new account and returns a JWT token.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Profile-ID  header  string  false  "Device profile id"
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	if profileID := c.Request().Header.Get(profileHeader); profileID != "" {
		// Account creation and device session persistence in one step.
		profile, err := h.profiles.Get(ctx, profileID, false)
		if err != nil {
			return err
		}
		if _, err := profile.Session.Register(ctx, req.Email, req.Password); err != nil {
			return err
		}
	} else {
		if _, err := h.authService.Register(ctx, req.Email, req.Password); err != nil {
			return err
		}
	}

	token, user, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{Token: token, User: user})
}

// Login authenticates an account and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Profile-ID  header  string  false  "Device profile id"
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	token, user, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	if profileID := c.Request().Header.Get(profileHeader); profileID != "" {
		profile, err := h.profiles.Get(ctx, profileID, false)
		if err != nil {
			return err
		}
		if _, err := profile.Session.Login(ctx, req.Email, req.Password); err != nil {
			return err
		}
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// Logout clears the device session. Idempotent: logging out an already
// logged-out device succeeds.
//
// @Summary      Logout the device session
// @Tags         auth
// @Produce      json
// @Param        X-Profile-ID  header  string  true  "Device profile id"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	profileID, err := ctxProfileID(c)
	if err != nil {
		return err
	}

	profile, err := h.profiles.Get(c.Request().Context(), profileID, false)
	if err != nil {
		return err
	}
	if err := profile.Session.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
