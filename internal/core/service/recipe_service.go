package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/simmerkit/recipe-vault/internal/core/domain"
	"github.com/simmerkit/recipe-vault/internal/core/ports"
)

// homeRecentLimit caps how many recipes the dashboard shows.
const homeRecentLimit = 5

type RecipeService struct {
	repo   ports.RecipeRepository
	logger zerolog.Logger
}

func NewRecipeService(repo ports.RecipeRepository, logger zerolog.Logger) *RecipeService {
	return &RecipeService{repo: repo, logger: logger}
}

// Create saves a new recipe after checking the free-plan limit. The title
// is the only required field; everything else is optional.
func (s *RecipeService) Create(ctx context.Context, input ports.CreateRecipeInput) (*domain.Recipe, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.ErrTitleRequired
	}

	count, err := s.repo.CountByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if !domain.AccessFor(input.Plan, int(count)).CanAddRecipe {
		return nil, domain.ErrFreeLimitReached
	}

	now := time.Now().UTC()
	source := input.Source
	if source == "" {
		source = domain.SourceManual
	}
	recipe := &domain.Recipe{
		ID:        uuid.NewString(),
		UserID:    input.UserID,
		Title:     strings.TrimSpace(input.Title),
		Content:   input.Content,
		Emoji:     input.Emoji,
		Tags:      cleanTags(input.Tags),
		MealTimes: input.MealTimes,
		Source:    source,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, recipe); err != nil {
		s.logger.Error().Err(err).Msg("failed to create recipe")
		return nil, err
	}

	s.logger.Info().Str("recipe_id", recipe.ID).Str("user_id", input.UserID).Str("source", string(source)).Msg("recipe created")
	return recipe, nil
}

func (s *RecipeService) Get(ctx context.Context, id, userID string) (*domain.Recipe, error) {
	return s.repo.FindByID(ctx, id, userID)
}

func (s *RecipeService) List(ctx context.Context, userID string) ([]ports.RecipeSummary, error) {
	recipes, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summarize(recipes), nil
}

// Collections groups the user's recipes by tag: one alphabetically sorted
// bucket per tag, plus a trailing synthetic bucket for untagged recipes.
// Buckets are recomputed on every call and never stored.
func (s *RecipeService) Collections(ctx context.Context, userID string) ([]domain.Collection, error) {
	recipes, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	uncategorized := 0
	for _, r := range recipes {
		tags := cleanTags(r.Tags)
		if len(tags) == 0 {
			uncategorized++
			continue
		}
		for _, tag := range tags {
			counts[tag]++
		}
	}

	items := make([]domain.Collection, 0, len(counts)+1)
	for label, count := range counts {
		items = append(items, domain.Collection{
			Key:   label,
			Label: label,
			Count: count,
			Kind:  domain.CollectionTag,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })

	if uncategorized > 0 {
		items = append(items, domain.Collection{
			Key:   domain.UncategorizedKey,
			Label: "Uncategorized",
			Count: uncategorized,
			Kind:  domain.CollectionUncategorized,
		})
	}

	return items, nil
}

// Collection expands one tag bucket into its member recipes. The reserved
// key "uncategorized" selects recipes with no tags.
func (s *RecipeService) Collection(ctx context.Context, userID, key string) (*ports.CollectionDetail, error) {
	recipes, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	detail := &ports.CollectionDetail{Key: key, Label: key}
	if key == domain.UncategorizedKey {
		detail.Label = "Uncategorized"
	}

	matched := make([]*domain.Recipe, 0, len(recipes))
	for _, r := range recipes {
		tags := cleanTags(r.Tags)
		if key == domain.UncategorizedKey {
			if len(tags) == 0 {
				matched = append(matched, r)
			}
			continue
		}
		for _, tag := range tags {
			if tag == key {
				matched = append(matched, r)
				break
			}
		}
	}
	detail.Recipes = summarize(matched)
	return detail, nil
}

// Home builds the dashboard aggregate: the most recent recipes and the
// presentation shape derived from how much content exists.
func (s *RecipeService) Home(ctx context.Context, userID string) (*ports.HomeView, error) {
	recipes, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent := recipes
	if len(recent) > homeRecentLimit {
		recent = recent[:homeRecentLimit]
	}

	shape := ports.HomeMature
	switch {
	case len(recipes) == 0:
		shape = ports.HomeEmpty
	case len(recipes) < 3:
		shape = ports.HomeTransitional
	}

	return &ports.HomeView{
		Shape:  shape,
		Recent: summarize(recent),
		Total:  int64(len(recipes)),
	}, nil
}

// Access computes the feature entitlements for the user's plan and current
// recipe count.
func (s *RecipeService) Access(ctx context.Context, userID string, plan domain.Plan) (domain.FeatureAccess, error) {
	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return domain.FeatureAccess{}, err
	}
	return domain.AccessFor(plan, int(count)), nil
}

func summarize(recipes []*domain.Recipe) []ports.RecipeSummary {
	out := make([]ports.RecipeSummary, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, ports.RecipeSummary{
			ID:        r.ID,
			Title:     r.Title,
			Emoji:     r.Emoji,
			Tags:      r.Tags,
			MealTimes: r.MealTimes,
			CreatedAt: r.CreatedAt,
		})
	}
	return out
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
