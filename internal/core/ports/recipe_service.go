package ports

import (
	"context"
	"time"

	"github.com/simmerkit/recipe-vault/internal/core/domain"
)

// CreateRecipeInput carries all data needed to create a new recipe.
type CreateRecipeInput struct {
	UserID    string
	Plan      domain.Plan
	Title     string
	Content   string
	Emoji     string
	Tags      []string
	MealTimes []domain.MealTime
	Source    domain.RecipeSource
}

// RecipeSummary is the lightweight view used in lists and on the home
// dashboard.
type RecipeSummary struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Emoji     string            `json:"emoji,omitempty"`
	Tags      []string          `json:"tags,omitempty"`
	MealTimes []domain.MealTime `json:"meal_times,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// HomeShape is the presentation state the home dashboard derives from how
// much content the user has.
type HomeShape string

const (
	HomeEmpty        HomeShape = "empty"
	HomeTransitional HomeShape = "transitional"
	HomeMature       HomeShape = "mature"
)

// HomeView is the aggregate returned by the home dashboard endpoint.
type HomeView struct {
	Shape  HomeShape       `json:"shape"`
	Recent []RecipeSummary `json:"recent"`
	Total  int64           `json:"total"`
}

// CollectionDetail is a tag bucket expanded into its member recipes.
type CollectionDetail struct {
	Key     string          `json:"key"`
	Label   string          `json:"label"`
	Recipes []RecipeSummary `json:"recipes"`
}

// RecipeService defines the content use cases.
type RecipeService interface {
	Create(ctx context.Context, input CreateRecipeInput) (*domain.Recipe, error)
	Get(ctx context.Context, id, userID string) (*domain.Recipe, error)
	List(ctx context.Context, userID string) ([]RecipeSummary, error)
	Collections(ctx context.Context, userID string) ([]domain.Collection, error)
	Collection(ctx context.Context, userID, key string) (*CollectionDetail, error)
	Home(ctx context.Context, userID string) (*HomeView, error)
	Access(ctx context.Context, userID string, plan domain.Plan) (domain.FeatureAccess, error)
}
