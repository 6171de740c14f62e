package ports

import (
	"context"
	"time"

	"github.com/simmerkit/recipe-vault/internal/core/domain"
)

// ImportSource is where an import request points at.
type ImportSource string

const (
	ImportInstagram   ImportSource = "instagram"
	ImportWebsites    ImportSource = "websites"
	ImportYouTube     ImportSource = "youtube"
	ImportScreenshots ImportSource = "screenshots"
	ImportDocuments   ImportSource = "documents"
)

// ImportJob is one queued import request.
type ImportJob struct {
	ID          string
	UserID      string
	Plan        domain.Plan
	Source      ImportSource
	Reference   string // URL, post id, or file reference, depending on source
	RequestedAt time.Time
}

// ImportService processes a single queued import job.
type ImportService interface {
	Process(ctx context.Context, job ImportJob) error
}
