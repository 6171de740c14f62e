package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/simmerkit/recipe-vault/internal/api/metrics"
	"github.com/simmerkit/recipe-vault/internal/core/domain"
	"github.com/simmerkit/recipe-vault/internal/core/ports"
)

// RecipeHandler handles recipes, derived collections, the home dashboard,
// and the subscription entitlement view. All routes require auth.
type RecipeHandler struct {
	service ports.RecipeService
}

func NewRecipeHandler(service ports.RecipeService) *RecipeHandler {
	return &RecipeHandler{service: service}
}

// Create handles POST /v1/recipes.
//
// @Summary      Create a recipe
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRecipeRequest  true  "Recipe details"
// @Success      201   {object}  recipeResponse
// @Failure      400   {object}  errorResponse
// @Failure      402   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/recipes [post]
func (h *RecipeHandler) Create(c echo.Context) error {
	var req createRecipeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	userID, plan, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	source := domain.SourceManual
	if req.Onboarding {
		source = domain.SourceOnboarding
	}

	recipe, err := h.service.Create(c.Request().Context(), ports.CreateRecipeInput{
		UserID:    userID,
		Plan:      plan,
		Title:     req.Title,
		Content:   req.Content,
		Emoji:     req.Emoji,
		Tags:      req.Tags,
		MealTimes: toMealTimes(req.MealTimes),
		Source:    source,
	})
	if err != nil {
		return err
	}

	metrics.RecipesCreatedTotal.WithLabelValues(string(recipe.Source)).Inc()
	return c.JSON(http.StatusCreated, toRecipeResponse(recipe))
}

// Get handles GET /v1/recipes/:id.
//
// @Summary      Get a recipe by id
// @Tags         recipes
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Recipe id"
// @Success      200 {object}  recipeResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/recipes/{id} [get]
func (h *RecipeHandler) Get(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	recipe, err := h.service.Get(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRecipeResponse(recipe))
}

// List handles GET /v1/recipes.
//
// @Summary      List recipes, newest first
// @Tags         recipes
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object}  recipeListResponse
// @Router       /v1/recipes [get]
func (h *RecipeHandler) List(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	items, err := h.service.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recipeListResponse{Items: items, Total: len(items)})
}

// Collections handles GET /v1/collections.
//
// @Summary      List derived tag collections
// @Tags         collections
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object}  collectionsResponse
// @Router       /v1/collections [get]
func (h *RecipeHandler) Collections(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	items, err := h.service.Collections(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, collectionsResponse{Items: items})
}

// Collection handles GET /v1/collections/:key.
//
// @Summary      Get one collection's recipes
// @Tags         collections
// @Produce      json
// @Security     BearerAuth
// @Param        key  path      string  true  "Tag, or 'uncategorized'"
// @Success      200  {object}  ports.CollectionDetail
// @Router       /v1/collections/{key} [get]
func (h *RecipeHandler) Collection(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	detail, err := h.service.Collection(c.Request().Context(), userID, c.Param("key"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// Home handles GET /v1/home.
//
// @Summary      Home dashboard aggregate
// @Tags         home
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object}  ports.HomeView
// @Router       /v1/home [get]
func (h *RecipeHandler) Home(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	view, err := h.service.Home(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Subscription handles GET /v1/subscription.
//
// @Summary      Feature access for the current plan
// @Tags         subscription
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object}  domain.FeatureAccess
// @Router       /v1/subscription [get]
func (h *RecipeHandler) Subscription(c echo.Context) error {
	userID, plan, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	access, err := h.service.Access(c.Request().Context(), userID, plan)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, access)
}
