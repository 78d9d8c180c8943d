package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/vidshelf/internal/identity"
	"github.com/desertthunder/vidshelf/internal/library"
	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/repositories"
	"github.com/desertthunder/vidshelf/internal/session"
	"github.com/desertthunder/vidshelf/internal/shared"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

// publicUser is a [models.User] without the password.
type publicUser struct {
	Username  string    `json:"username"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

func toPublic(u *models.User) publicUser {
	return publicUser{
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

type searchResult struct {
	models.Video
	Saved bool `json:"saved"`
}

type playlistView struct {
	Playlists    []models.Playlist     `json:"playlists"`
	ActiveID     string                `json:"activeId"`
	Filter       string                `json:"filter"`
	Sort         library.SortMode      `json:"sort"`
	Items        []models.PlaylistItem `json:"items"`
	CountLabel   string                `json:"countLabel,omitempty"`
	EmptyMessage string                `json:"emptyMessage,omitempty"`
}

type playResponse struct {
	PlaylistID string              `json:"playlistId"`
	Index      int                 `json:"index"`
	Total      int                 `json:"total"`
	Item       models.PlaylistItem `json:"item"`
	EmbedURL   string              `json:"embedUrl"`
	WatchURL   string              `json:"watchUrl"`
}

type loginInfo struct {
	Next          string `json:"next"`
	Destination   string `json:"destination"`
	Authenticated bool   `json:"authenticated"`
}

// httpNavigator redirects unauthenticated requests to the login route.
type httpNavigator struct {
	w http.ResponseWriter
	r *http.Request
}

func (n httpNavigator) Redirect(location string) {
	http.Redirect(n.w, n.r, "/"+location, http.StatusFound)
}

type authedHandler func(w http.ResponseWriter, r *http.Request, sc session.Context)

// guard returns a session guard bound to the request's browser session.
func (s *Server) guard(w http.ResponseWriter, r *http.Request) *session.Guard {
	return session.NewGuard(s.Sessions.Store(w, r), s.Users, s.Logger)
}

// authed runs next with the session context, or redirects to login carrying the requested location.
func (s *Server) authed(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requested := strings.TrimPrefix(r.URL.RequestURI(), "/")
		sc, ok := s.guard(w, r).RequireAuth(r.Context(), httpNavigator{w: w, r: r}, requested)
		if !ok {
			AuthEventsTotal.WithLabelValues("redirect", "unauthenticated").Inc()
			return
		}
		next(w, r, sc)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var form identity.Registration
	if !decodeBody(w, r, &form) {
		return
	}

	user, err := s.Users.Enroll(r.Context(), form)
	switch {
	case errors.Is(err, shared.ErrDuplicateUsername):
		AuthEventsTotal.WithLabelValues("register", "duplicate").Inc()
		writeError(w, http.StatusConflict, identity.DuplicateUsernameMessage)
	case errors.Is(err, shared.ErrValidation):
		AuthEventsTotal.WithLabelValues("register", "invalid").Inc()
		writeError(w, http.StatusBadRequest, userMessage(err, shared.ErrValidation))
	case err != nil:
		s.internalError(w, "register", err)
	default:
		AuthEventsTotal.WithLabelValues("register", "ok").Inc()
		writeJSON(w, http.StatusCreated, toPublic(user))
	}
}

// handleLoginInfo reports where a login would land. A visitor already logged in is sent there directly.
func (s *Server) handleLoginInfo(w http.ResponseWriter, r *http.Request) {
	next := rawQueryParam(r, "next")
	_, authenticated := s.guard(w, r).Current(r.Context())
	writeJSON(w, http.StatusOK, loginInfo{
		Next:          next,
		Destination:   session.ResolveNext(next),
		Authenticated: authenticated,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &creds) {
		return
	}

	sc, err := s.guard(w, r).Login(r.Context(), creds.Username, creds.Password)
	switch {
	case errors.Is(err, shared.ErrValidation):
		AuthEventsTotal.WithLabelValues("login", "invalid").Inc()
		writeError(w, http.StatusBadRequest, session.MissingCredentialsMessage)
	case errors.Is(err, shared.ErrInvalidCredentials):
		AuthEventsTotal.WithLabelValues("login", "rejected").Inc()
		writeError(w, http.StatusUnauthorized, shared.InvalidCredentialsMessage)
	case err != nil:
		s.internalError(w, "login", err)
	default:
		AuthEventsTotal.WithLabelValues("login", "ok").Inc()
		writeJSON(w, http.StatusOK, map[string]string{
			"username": sc.Username,
			"next":     session.ResolveNext(rawQueryParam(r, "next")),
		})
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.guard(w, r).Logout(r.Context()); err != nil {
		s.internalError(w, "logout", err)
		return
	}
	AuthEventsTotal.WithLabelValues("logout", "ok").Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, sc session.Context) {
	user, ok := s.Users.FindUser(r.Context(), sc.Username)
	if !ok {
		user = &models.User{Username: sc.Username}
	}
	writeJSON(w, http.StatusOK, toPublic(user))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request, sc session.Context) {
	if s.Searcher == nil {
		writeError(w, http.StatusServiceUnavailable, shared.SearchFailedMessage)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		SearchRequestsTotal.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, shared.EmptySearchMessage)
		return
	}

	videos, err := s.Searcher.Search(r.Context(), query, s.apiKey(r))
	switch {
	case errors.Is(err, shared.ErrInvalidInput):
		SearchRequestsTotal.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, shared.EmptySearchMessage)
		return
	case errors.Is(err, shared.ErrMissingCredentials):
		SearchRequestsTotal.WithLabelValues("missing_key").Inc()
		writeError(w, http.StatusBadRequest, shared.MissingAPIKeyMessage)
		return
	case err != nil:
		SearchRequestsTotal.WithLabelValues("failed").Inc()
		s.Logger.Warn("search failed", "query", query, "error", err)
		writeError(w, http.StatusBadGateway, shared.SearchFailedMessage)
		return
	}

	SearchRequestsTotal.WithLabelValues("ok").Inc()
	results := make([]searchResult, 0, len(videos))
	for _, v := range videos {
		results = append(results, searchResult{Video: v, Saved: s.Library.HasVideo(r.Context(), sc, v.ID)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": query, "results": results})
}

// apiKey returns the saved key, falling back to the configured one.
func (s *Server) apiKey(r *http.Request) string {
	if key := repositories.Read(r.Context(), s.Durable, repositories.KeyAPIKey, ""); key != "" {
		return key
	}
	return s.APIKey
}

func (s *Server) handleGetAPIKey(w http.ResponseWriter, r *http.Request, _ session.Context) {
	writeJSON(w, http.StatusOK, map[string]bool{"saved": s.apiKey(r) != ""})
}

func (s *Server) handlePutAPIKey(w http.ResponseWriter, r *http.Request, sc session.Context) {
	var body struct {
		Key string `json:"key"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	key := strings.TrimSpace(body.Key)
	if key == "" {
		writeError(w, http.StatusBadRequest, shared.InvalidAPIKeyMessage)
		return
	}
	if err := s.Durable.Write(r.Context(), repositories.KeyAPIKey, key); err != nil {
		s.internalError(w, "save api key", err)
		return
	}

	s.Logger.Info("api key saved", "user", sc.Username)
	writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request, sc session.Context) {
	q := r.URL.Query()
	playlists := s.Library.ListPlaylists(r.Context(), sc)
	view := playlistView{
		Playlists: playlists,
		ActiveID:  library.SelectActive(playlists, q.Get("playlistId")),
		Filter:    strings.TrimSpace(q.Get("filter")),
		Sort:      library.ParseSortMode(q.Get("sort")),
		Items:     []models.PlaylistItem{},
	}

	var active *models.Playlist
	for i := range playlists {
		if playlists[i].ID == view.ActiveID {
			active = &playlists[i]
		}
	}
	if active != nil {
		view.Items = library.VisibleItems(active.Items, view.Filter, view.Sort)
		view.CountLabel = library.CountLabel(len(active.Items))
	}
	view.EmptyMessage = library.EmptyMessage(active, view.Filter, len(view.Items))

	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request, sc session.Context) {
	var body struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	playlist, err := s.Library.CreatePlaylist(r.Context(), sc, body.Name)
	switch {
	case errors.Is(err, shared.ErrValidation):
		LibraryOperationsTotal.WithLabelValues("create_playlist", "invalid").Inc()
		writeError(w, http.StatusBadRequest, shared.PlaylistNameMessage)
	case err != nil:
		s.libraryError(w, "create_playlist", err)
	default:
		LibraryOperationsTotal.WithLabelValues("create_playlist", "ok").Inc()
		writeJSON(w, http.StatusCreated, playlist)
	}
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request, sc session.Context) {
	remaining, err := s.Library.RemovePlaylist(r.Context(), sc, r.PathValue("id"))
	if err != nil {
		s.libraryError(w, "remove_playlist", err)
		return
	}

	LibraryOperationsTotal.WithLabelValues("remove_playlist", "ok").Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"playlists": remaining,
		"activeId":  library.SelectActive(remaining, ""),
	})
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request, sc session.Context) {
	var video models.Video
	if !decodeBody(w, r, &video) {
		return
	}
	video.ID = strings.TrimSpace(video.ID)
	if video.ID == "" {
		LibraryOperationsTotal.WithLabelValues("add_item", "invalid").Inc()
		writeError(w, http.StatusBadRequest, "video id is required")
		return
	}

	res, err := s.Library.AddItem(r.Context(), sc, r.PathValue("id"), video)
	if err != nil {
		s.libraryError(w, "add_item", err)
		return
	}

	switch res.Reason {
	case models.ReasonMissingPlaylist:
		LibraryOperationsTotal.WithLabelValues("add_item", "missing_playlist").Inc()
		writeJSON(w, http.StatusNotFound, res)
	case models.ReasonDuplicate:
		LibraryOperationsTotal.WithLabelValues("add_item", "duplicate").Inc()
		writeJSON(w, http.StatusConflict, res)
	default:
		LibraryOperationsTotal.WithLabelValues("add_item", "ok").Inc()
		writeJSON(w, http.StatusCreated, res)
	}
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request, sc session.Context) {
	var update models.ItemUpdate
	if !decodeBody(w, r, &update) {
		return
	}

	id := r.PathValue("id")
	ok, err := s.Library.UpdateItem(r.Context(), sc, id, r.PathValue("itemId"), update)
	if err != nil {
		s.libraryError(w, "update_item", err)
		return
	}
	if !ok {
		LibraryOperationsTotal.WithLabelValues("update_item", "missing_item").Inc()
		writeError(w, http.StatusNotFound, shared.ErrMissingItem.Error())
		return
	}

	LibraryOperationsTotal.WithLabelValues("update_item", "ok").Inc()
	s.writePlaylist(w, r, sc, id)
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request, sc session.Context) {
	id := r.PathValue("id")
	ok, err := s.Library.RemoveItem(r.Context(), sc, id, r.PathValue("itemId"))
	if err != nil {
		s.libraryError(w, "remove_item", err)
		return
	}
	if !ok {
		LibraryOperationsTotal.WithLabelValues("remove_item", "missing_playlist").Inc()
		writeError(w, http.StatusNotFound, shared.MissingPlaylistMessage)
		return
	}

	LibraryOperationsTotal.WithLabelValues("remove_item", "ok").Inc()
	s.writePlaylist(w, r, sc, id)
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request, sc session.Context) {
	playlist, ok := s.Library.FindPlaylist(r.Context(), sc, r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, shared.MissingPlaylistMessage)
		return
	}

	q := r.URL.Query()
	queue := library.VisibleItems(playlist.Items, q.Get("filter"), library.ParseSortMode(q.Get("sort")))
	index, _ := strconv.Atoi(q.Get("index"))

	var player library.Player
	if err := player.Open(queue, index); err != nil {
		writeError(w, http.StatusConflict, library.EmptyQueueMessage)
		return
	}

	item, _ := player.Current()
	writeJSON(w, http.StatusOK, playResponse{
		PlaylistID: playlist.ID,
		Index:      player.Index(),
		Total:      player.Len(),
		Item:       item,
		EmbedURL:   player.EmbedURL(),
		WatchURL:   library.WatchURL(item.ID),
	})
}

func (s *Server) writePlaylist(w http.ResponseWriter, r *http.Request, sc session.Context, id string) {
	playlist, ok := s.Library.FindPlaylist(r.Context(), sc, id)
	if !ok {
		writeError(w, http.StatusNotFound, shared.MissingPlaylistMessage)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

func (s *Server) libraryError(w http.ResponseWriter, op string, err error) {
	LibraryOperationsTotal.WithLabelValues(op, "error").Inc()
	s.internalError(w, op, err)
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.Logger.Error("request failed", "op", op, "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// decodeBody reads a JSON body into v, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// userMessage strips the sentinel prefix from a wrapped error.
func userMessage(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}

// rawQueryParam returns the still-encoded value of a query parameter.
func rawQueryParam(r *http.Request, name string) string {
	for _, pair := range strings.Split(r.URL.RawQuery, "&") {
		if v, ok := strings.CutPrefix(pair, name+"="); ok {
			return v
		}
	}
	return ""
}
