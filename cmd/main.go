package main

import (
	"context"
	"os"

	"github.com/desertthunder/vidshelf/internal/services"
	"github.com/desertthunder/vidshelf/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config, err := shared.LoadConfigOrDefault("config.toml")
	if err != nil {
		logger.Warn("failed to load config, using defaults", "error", err)
		config = shared.DefaultConfig()
	}

	searcher := services.NewYouTubeService(services.YouTubeOptions{
		BaseURL:    config.YouTube.BaseURL,
		MaxResults: config.YouTube.MaxResults,
		RateLimit:  config.YouTube.RateLimit,
		Logger:     logger,
	})

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Searcher: searcher,
		Logger:   logger,
	})

	err = runner.app().Run(context.Background(), os.Args)
	if cerr := runner.Close(); cerr != nil {
		logger.Warn("failed to close stores", "error", cerr)
	}
	if err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
