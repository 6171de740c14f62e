package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/simmerkit/recipe-vault/internal/core/domain"
	"github.com/simmerkit/recipe-vault/internal/core/ports"
)

// importService materializes queued import jobs as recipes. Actual content
// extraction is not built yet; each processed job produces a placeholder
// recipe tagged with its source, so the rest of the pipeline (queueing,
// sharding, plan limits, dashboard) is exercised end to end.
type importService struct {
	recipes ports.RecipeService
	log     zerolog.Logger
}

// NewImportService returns an ImportService writing through the recipe
// service, so plan limits apply to imported recipes too.
func NewImportService(recipes ports.RecipeService, log zerolog.Logger) ports.ImportService {
	return &importService{recipes: recipes, log: log}
}

var sourceTitles = map[ports.ImportSource]string{
	ports.ImportInstagram:   "Instagram import",
	ports.ImportWebsites:    "Web import",
	ports.ImportYouTube:     "YouTube import",
	ports.ImportScreenshots: "Screenshot import",
	ports.ImportDocuments:   "Document import",
}

// Process converts one import job into a recipe.
func (s *importService) Process(ctx context.Context, job ports.ImportJob) error {
	title, ok := sourceTitles[job.Source]
	if !ok {
		return fmt.Errorf("process import %s: unknown source %q", job.ID, job.Source)
	}

	recipe, err := s.recipes.Create(ctx, ports.CreateRecipeInput{
		UserID:  job.UserID,
		Plan:    job.Plan,
		Title:   title,
		Content: job.Reference,
		Tags:    []string{"Imported"},
		Source:  domain.SourceImport,
	})
	if err != nil {
		return fmt.Errorf("process import %s: %w", job.ID, err)
	}

	s.log.Info().
		Str("import_id", job.ID).
		Str("recipe_id", recipe.ID).
		Str("source", string(job.Source)).
		Msg("import processed")

	return nil
}
