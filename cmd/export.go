package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vidshelf/internal/formatter"
	"github.com/desertthunder/vidshelf/internal/library"
	"github.com/desertthunder/vidshelf/internal/shared"
	"github.com/desertthunder/vidshelf/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistExport writes one playlist, or every playlist with --all, to files.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	sc, err := r.requireAuth(ctx, "playlists?playlistId="+id)
	if err != nil {
		return err
	}

	var ids []string
	switch {
	case cmd.Bool("all"):
	case id != "":
		ids = []string{id}
	default:
		return fmt.Errorf("%w: playlist id or --all", shared.ErrMissingArgument)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	opts := tasks.BulkExportOpts{
		Format:        format,
		OutputDir:     cmd.String("output"),
		NumWorkers:    int(cmd.Int("workers")),
		RateLimit:     cmd.Float("rate"),
		DownloadCover: cmd.Bool("cover"),
		Filter:        cmd.String("filter"),
		Sort:          library.ParseSortMode(cmd.String("sort")),
	}

	r.logger.Info("starting export", "format", format, "all", len(ids) == 0)
	r.writePlain("Starting playlist export...\n\n")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.ResolvePlaylists:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ExportPlaylist:
				r.writePlain("   %s\n", update.Message)
			case tasks.WriteManifest:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	result, err := tasks.NewExporter(r.engine, shared.WithLogger(r.logger, "task", "export")).BulkExport(ctx, progressCh, sc, ids, opts)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Format: %s\n", result.Format)
	r.writePlain("Output: %s\n", result.OutputDirectory)
	r.writePlain("Exported: %d/%d playlists\n", result.SuccessfulExports, result.TotalPlaylists)
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}

	if result.FailedExports > 0 {
		r.writePlain("\nFailed to export %d playlists:\n", result.FailedExports)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  - %s: %s\n", res.PlaylistID, res.ErrorMessage)
			}
		}
	}

	return nil
}
