package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/vidshelf/internal/library"
	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/session"
	"github.com/desertthunder/vidshelf/internal/shared"
	"github.com/urfave/cli/v3"
)

// searchResult is a catalog video annotated with whether the user already saved it.
type searchResult struct {
	models.Video
	Saved bool `json:"saved"`
}

// Search queries the catalog with the saved API key and optionally adds a result to a playlist.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	sc, err := r.requireAuth(ctx, "search?q="+query)
	if err != nil {
		return err
	}
	if r.searcher == nil {
		return fmt.Errorf("%w: search service not initialized", shared.ErrServiceUnavailable)
	}
	if query == "" {
		return fmt.Errorf("%w: %s", shared.ErrInvalidInput, shared.EmptySearchMessage)
	}

	r.logger.Info("searching", "query", query)
	videos, err := r.searcher.Search(ctx, query, r.apiKey(ctx))
	switch {
	case errors.Is(err, shared.ErrInvalidInput):
		return fmt.Errorf("%w: %s", shared.ErrInvalidInput, shared.EmptySearchMessage)
	case errors.Is(err, shared.ErrMissingCredentials):
		return fmt.Errorf("%w: %s", shared.ErrMissingCredentials, shared.MissingAPIKeyMessage)
	case err != nil:
		r.logger.Warn("search failed", "query", query, "error", err)
		return fmt.Errorf("%w: %s", shared.ErrRemoteSearch, shared.SearchFailedMessage)
	}

	results := make([]searchResult, len(videos))
	for i, v := range videos {
		results[i] = searchResult{Video: v, Saved: r.engine.HasVideo(ctx, sc, v.ID)}
	}

	if playlistID := cmd.String("add-to"); playlistID != "" {
		pick := cmd.Int("pick")
		if pick < 1 || pick > len(results) {
			return fmt.Errorf("%w: --pick must be between 1 and %d", shared.ErrInvalidArgument, len(results))
		}
		return r.addVideo(ctx, sc, playlistID, results[pick-1].Video)
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	if len(results) == 0 {
		return r.writePlain("No results for %q\n", query)
	}

	r.writePlain("Found %d videos:\n\n", len(results))
	for i, res := range results {
		saved := ""
		if res.Saved {
			saved = " ✓ saved"
		}
		r.writePlain("%d. %s%s\n", i+1, res.Title, saved)
		r.writePlain("   %s • %s • %s views\n", res.ChannelTitle, shared.FormatDuration(res.Duration), shared.FormatCount(res.ViewCount))
		r.writePlain("   ID: %s\n\n", res.ID)
	}
	return nil
}

// PlaylistList lists the user's playlists, newest first.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	sc, err := r.requireAuth(ctx, "playlists")
	if err != nil {
		return err
	}

	playlists := r.engine.ListPlaylists(ctx, sc)
	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	if len(playlists) == 0 {
		return r.writePlain("No playlists yet. Create one.\n")
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   %s\n", library.CountLabel(len(p.Items)))
		r.writePlain("   Created: %s\n\n", p.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// PlaylistCreate creates an empty playlist.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	sc, err := r.requireAuth(ctx, "playlists")
	if err != nil {
		return err
	}

	p, err := r.engine.CreatePlaylist(ctx, sc, cmd.StringArg("name"))
	if errors.Is(err, shared.ErrValidation) {
		return fmt.Errorf("%w: %s", shared.ErrValidation, shared.PlaylistNameMessage)
	}
	if err != nil {
		return err
	}

	return r.writePlain("✓ Playlist created: %s (ID: %s)\n", p.Name, p.ID)
}

// PlaylistDelete deletes a playlist and reports what remains.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	sc, err := r.requireAuth(ctx, "playlists?playlistId="+id)
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	remaining, err := r.engine.RemovePlaylist(ctx, sc, id)
	if err != nil {
		return err
	}

	r.writePlain("✓ Playlist deleted\n")
	if next := library.SelectActive(remaining, ""); next != "" {
		r.writePlain("  %d playlists remaining, next: %s\n", len(remaining), next)
	} else {
		r.writePlain("  No playlists remaining\n")
	}
	return nil
}

// PlaylistShow prints a playlist's visible items.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	sc, err := r.requireAuth(ctx, "playlists?playlistId="+id)
	if err != nil {
		return err
	}

	p, err := r.findPlaylist(ctx, sc, id)
	if err != nil {
		return err
	}

	filter := cmd.String("filter")
	mode := library.ParseSortMode(cmd.String("sort"))
	visible := library.VisibleItems(p.Items, filter, mode)

	if cmd.Bool("json") {
		return r.writeJSON(struct {
			*models.Playlist
			Visible []models.PlaylistItem `json:"visible"`
		}{p, visible}, cmd.Bool("pretty"))
	}

	r.writePlainHeader(p.Name)
	r.writePlain("%s • sort: %s\n\n", library.CountLabel(len(p.Items)), mode)

	if msg := library.EmptyMessage(p, filter, len(visible)); msg != "" {
		return r.writePlain("%s\n", msg)
	}

	for i, item := range visible {
		r.writePlain("%d. %s  %s\n", i+1, item.Title, shared.Stars(item.Rating))
		r.writePlain("   %s • %s • %s views\n", item.ChannelTitle, shared.FormatDuration(item.Duration), shared.FormatCount(item.ViewCount))
		r.writePlain("   ID: %s\n", item.ID)
	}
	return nil
}

// ItemAdd adds a video described by flags to a playlist.
func (r *Runner) ItemAdd(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.StringArg("playlist")
	sc, err := r.requireAuth(ctx, "playlists?playlistId="+playlistID)
	if err != nil {
		return err
	}

	video := models.Video{
		ID:           strings.TrimSpace(cmd.StringArg("video")),
		Title:        cmd.String("title"),
		ChannelTitle: cmd.String("channel"),
		Thumbnail:    cmd.String("thumbnail"),
		Duration:     cmd.String("duration"),
		ViewCount:    cmd.String("views"),
	}
	if video.ID == "" {
		return fmt.Errorf("%w: video id", shared.ErrMissingArgument)
	}
	if video.Title == "" {
		video.Title = video.ID
	}

	return r.addVideo(ctx, sc, playlistID, video)
}

func (r *Runner) addVideo(ctx context.Context, sc session.Context, playlistID string, video models.Video) error {
	res, err := r.engine.AddItem(ctx, sc, playlistID, video)
	if err != nil {
		return err
	}

	switch res.Reason {
	case models.ReasonMissingPlaylist:
		return fmt.Errorf("%w: %s", shared.ErrMissingPlaylist, playlistID)
	case models.ReasonDuplicate:
		return fmt.Errorf("%w: %s", shared.ErrDuplicateItem, shared.DuplicateItemMessage)
	}

	return r.writePlain("✓ Added %s to %s\n", video.Title, res.Playlist.Name)
}

// ItemRate sets an item's rating, clamped to 0..5.
func (r *Runner) ItemRate(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.StringArg("playlist")
	sc, err := r.requireAuth(ctx, "playlists?playlistId="+playlistID)
	if err != nil {
		return err
	}

	rating, err := strconv.Atoi(cmd.StringArg("rating"))
	if err != nil {
		return fmt.Errorf("%w: rating must be a number from 0 to 5", shared.ErrInvalidArgument)
	}

	itemID := cmd.StringArg("item")
	ok, err := r.engine.UpdateItem(ctx, sc, playlistID, itemID, models.RatingUpdate(rating))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrMissingItem, itemID)
	}

	return r.writePlain("✓ Rated %s %s\n", itemID, shared.Stars(models.ClampRating(rating)))
}

// ItemRemove removes an item from a playlist.
func (r *Runner) ItemRemove(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.StringArg("playlist")
	sc, err := r.requireAuth(ctx, "playlists?playlistId="+playlistID)
	if err != nil {
		return err
	}

	ok, err := r.engine.RemoveItem(ctx, sc, playlistID, cmd.StringArg("item"))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrMissingPlaylist, playlistID)
	}

	return r.writePlain("✓ Removed from playlist\n")
}

// Play prints the play queue for a playlist's visible items, marking the current one.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	sc, err := r.requireAuth(ctx, "playlists?playlistId="+id)
	if err != nil {
		return err
	}

	p, err := r.findPlaylist(ctx, sc, id)
	if err != nil {
		return err
	}

	queue := library.VisibleItems(p.Items, cmd.String("filter"), library.ParseSortMode(cmd.String("sort")))

	var player library.Player
	if err := player.Open(queue, cmd.Int("index")-1); err != nil {
		return err
	}

	item, _ := player.Current()
	r.writePlain("▶ Now playing (%d/%d): %s\n", player.Index()+1, player.Len(), item.Title)
	r.writePlain("  Embed: %s\n", player.EmbedURL())
	r.writePlain("  Watch: %s\n\nQueue:\n", library.WatchURL(item.ID))
	for i, q := range queue {
		marker := " "
		if i == player.Index() {
			marker = "▶"
		}
		r.writePlain("%s %d. %s\n", marker, i+1, q.Title)
	}

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(library.WatchURL(item.ID)); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}
	return nil
}

func (r *Runner) findPlaylist(ctx context.Context, sc session.Context, id string) (*models.Playlist, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}
	p, ok := r.engine.FindPlaylist(ctx, sc, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrMissingPlaylist, id)
	}
	return p, nil
}
