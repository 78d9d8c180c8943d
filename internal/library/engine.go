package library

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/repositories"
	"github.com/desertthunder/vidshelf/internal/session"
	"github.com/desertthunder/vidshelf/internal/shared"
)

// Engine performs playlist operations for one user at a time.
type Engine struct {
	docs   *repositories.Store
	logger *log.Logger
	now    func() time.Time
	newID  func() string

	// mu serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

// NewEngine creates an [Engine] over the durable store. A nil logger discards output.
func NewEngine(docs *repositories.Store, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Engine{docs: docs, logger: logger, now: time.Now, newID: shared.GenerateID}
}

// WithClock replaces the clock used for CreatedAt and AddedAt.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// ListPlaylists returns the caller's playlists, newest first.
func (e *Engine) ListPlaylists(ctx context.Context, sc session.Context) []models.Playlist {
	_, playlists := e.load(ctx, sc)
	return playlists
}

// FindPlaylist returns a copy of the caller's playlist with the given id.
func (e *Engine) FindPlaylist(ctx context.Context, sc session.Context, id string) (*models.Playlist, bool) {
	_, playlists := e.load(ctx, sc)
	if i := indexOf(playlists, id); i >= 0 {
		return &playlists[i], true
	}
	return nil, false
}

// CreatePlaylist prepends a new, empty playlist named name.
func (e *Engine) CreatePlaylist(ctx context.Context, sc session.Context, name string) (*models.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrValidation)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	raw, playlists := e.load(ctx, sc)
	playlist := models.Playlist{
		ID:        e.newID(),
		Name:      name,
		CreatedAt: e.now(),
		Items:     []models.PlaylistItem{},
	}
	if err := playlist.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	playlists = append([]models.Playlist{playlist}, playlists...)
	if err := e.save(ctx, raw, sc, playlists); err != nil {
		return nil, err
	}

	e.logger.Info("created playlist", "user", sc.Username, "id", playlist.ID, "name", playlist.Name)
	return &playlist, nil
}

// AddItem prepends video to the playlist with an initial rating of zero.
//
// A missing playlist or a video already present is reported through [models.AddResult] rather than an error.
func (e *Engine) AddItem(ctx context.Context, sc session.Context, playlistID string, video models.Video) (models.AddResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	raw, playlists := e.load(ctx, sc)
	i := indexOf(playlists, playlistID)
	if i < 0 {
		return models.AddResult{OK: false, Reason: models.ReasonMissingPlaylist}, nil
	}

	p := &playlists[i]
	if p.Contains(video.ID) {
		return models.AddResult{OK: false, Reason: models.ReasonDuplicate, Playlist: p}, nil
	}

	item := models.NewPlaylistItem(video, e.now())
	p.Items = append([]models.PlaylistItem{item}, p.Items...)

	if err := e.save(ctx, raw, sc, playlists); err != nil {
		return models.AddResult{}, err
	}

	e.logger.Debug("added item", "user", sc.Username, "playlist", playlistID, "video", video.ID)
	return models.AddResult{OK: true, Playlist: p}, nil
}

// UpdateItem merges the non-nil fields of update into an item. Ratings are clamped to 0..5.
//
// Returns false when the playlist or the item does not exist.
func (e *Engine) UpdateItem(ctx context.Context, sc session.Context, playlistID, itemID string, update models.ItemUpdate) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	raw, playlists := e.load(ctx, sc)
	i := indexOf(playlists, playlistID)
	if i < 0 {
		return false, nil
	}

	p := &playlists[i]
	j := p.IndexOf(itemID)
	if j < 0 {
		return false, nil
	}

	update.Apply(&p.Items[j])
	if err := e.save(ctx, raw, sc, playlists); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveItem drops an item from a playlist. Removing an absent item succeeds without changes.
//
// Returns false when the playlist does not exist.
func (e *Engine) RemoveItem(ctx context.Context, sc session.Context, playlistID, itemID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	raw, playlists := e.load(ctx, sc)
	i := indexOf(playlists, playlistID)
	if i < 0 {
		return false, nil
	}

	p := &playlists[i]
	kept := make([]models.PlaylistItem, 0, len(p.Items))
	for _, item := range p.Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	p.Items = kept

	if err := e.save(ctx, raw, sc, playlists); err != nil {
		return false, err
	}
	return true, nil
}

// RemovePlaylist deletes a playlist and returns the caller's remaining playlists.
func (e *Engine) RemovePlaylist(ctx context.Context, sc session.Context, playlistID string) ([]models.Playlist, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	raw, playlists := e.load(ctx, sc)
	remaining := make([]models.Playlist, 0, len(playlists))
	for _, p := range playlists {
		if p.ID != playlistID {
			remaining = append(remaining, p)
		}
	}

	if err := e.save(ctx, raw, sc, remaining); err != nil {
		return nil, err
	}

	e.logger.Info("removed playlist", "user", sc.Username, "id", playlistID)
	return remaining, nil
}

// HasVideo reports whether any of the caller's playlists holds videoID.
func (e *Engine) HasVideo(ctx context.Context, sc session.Context, videoID string) bool {
	_, playlists := e.load(ctx, sc)
	for i := range playlists {
		if playlists[i].Contains(videoID) {
			return true
		}
	}
	return false
}

// load reads the whole playlists document and decodes the caller's entry.
//
// A missing or undecodable entry is an empty sequence.
func (e *Engine) load(ctx context.Context, sc session.Context) (map[string]json.RawMessage, []models.Playlist) {
	raw := repositories.Read(ctx, e.docs, repositories.KeyPlaylists, map[string]json.RawMessage{})
	if raw == nil {
		raw = map[string]json.RawMessage{}
	}

	playlists := []models.Playlist{}
	entry, ok := raw[sc.Username]
	if !ok {
		return raw, playlists
	}
	if err := json.Unmarshal(entry, &playlists); err != nil || playlists == nil {
		e.logger.Debug("undecodable playlists treated as empty", "user", sc.Username, "error", err)
		return raw, []models.Playlist{}
	}

	for i := range playlists {
		if playlists[i].Items == nil {
			playlists[i].Items = []models.PlaylistItem{}
		}
	}
	return raw, playlists
}

// save replaces the caller's entry and writes the whole document back.
func (e *Engine) save(ctx context.Context, raw map[string]json.RawMessage, sc session.Context, playlists []models.Playlist) error {
	if sc.IsZero() {
		return shared.ErrNotAuthenticated
	}

	entry, err := json.Marshal(playlists)
	if err != nil {
		return fmt.Errorf("failed to encode playlists: %w", err)
	}
	raw[sc.Username] = entry

	if err := e.docs.Write(ctx, repositories.KeyPlaylists, raw); err != nil {
		return fmt.Errorf("failed to save playlists: %w", err)
	}
	return nil
}

func indexOf(playlists []models.Playlist, id string) int {
	for i := range playlists {
		if playlists[i].ID == id {
			return i
		}
	}
	return -1
}
