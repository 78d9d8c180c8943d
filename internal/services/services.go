package services

import (
	"context"

	"github.com/desertthunder/vidshelf/internal/models"
)

// Searcher looks up videos in a remote catalog.
type Searcher interface {
	// Search returns catalog videos matching query, authenticating with apiKey.
	Search(ctx context.Context, query, apiKey string) ([]models.Video, error)
}
