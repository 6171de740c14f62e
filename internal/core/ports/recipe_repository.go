package ports

import (
	"context"

	"github.com/simmerkit/recipe-vault/internal/core/domain"
)

// RecipeRepository defines persistence operations for recipes.
type RecipeRepository interface {
	Create(ctx context.Context, r *domain.Recipe) error
	// FindByID retrieves one recipe scoped to its owner.
	FindByID(ctx context.Context, id, userID string) (*domain.Recipe, error)
	// ListByUser returns all recipes of a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Recipe, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}
