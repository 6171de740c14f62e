package handler

import (
	"time"

	"github.com/simmerkit/recipe-vault/internal/core/domain"
	"github.com/simmerkit/recipe-vault/internal/core/ports"
)

type createRecipeRequest struct {
	Title     string   `json:"title"      validate:"required"`
	Content   string   `json:"content,omitempty"`
	Emoji     string   `json:"emoji,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	MealTimes []string `json:"meal_times,omitempty" validate:"omitempty,dive,oneof=breakfast lunch snack dinner"`
	// Onboarding marks the recipe as created from the first-run flow.
	Onboarding bool `json:"onboarding,omitempty"`
}

type recipeResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	Emoji     string    `json:"emoji,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	MealTimes []string  `json:"meal_times,omitempty"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

type recipeListResponse struct {
	Items []ports.RecipeSummary `json:"items"`
	Total int                   `json:"total"`
}

type collectionsResponse struct {
	Items []domain.Collection `json:"items"`
}

func toRecipeResponse(r *domain.Recipe) recipeResponse {
	meals := make([]string, 0, len(r.MealTimes))
	for _, m := range r.MealTimes {
		meals = append(meals, string(m))
	}
	return recipeResponse{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Emoji:     r.Emoji,
		Tags:      r.Tags,
		MealTimes: meals,
		Source:    string(r.Source),
		CreatedAt: r.CreatedAt,
	}
}

func toMealTimes(in []string) []domain.MealTime {
	out := make([]domain.MealTime, 0, len(in))
	for _, m := range in {
		out = append(out, domain.MealTime(m))
	}
	return out
}
