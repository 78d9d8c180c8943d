package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Identity & session errors
	ErrDuplicateUsername  = fmt.Errorf("username already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid username or password")
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")

	// Library errors
	ErrMissingPlaylist = fmt.Errorf("playlist not found")
	ErrDuplicateItem   = fmt.Errorf("video already in playlist")
	ErrMissingItem     = fmt.Errorf("video not found in playlist")
	ErrEmptyQueue      = fmt.Errorf("no tracks to play right now")

	// Remote catalog errors
	ErrRemoteSearch       = fmt.Errorf("search failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrValidation      = fmt.Errorf("validation failed")
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// SearchFailedMessage is the single user-facing message for any remote search failure.
const SearchFailedMessage = "Search failed. Please try again later."

// User-facing messages for the outer surfaces.
const (
	InvalidCredentialsMessage = "Invalid username or password."
	MissingAPIKeyMessage      = "Missing API key. Add one to search."
	InvalidAPIKeyMessage      = "Please enter a valid API key."
	EmptySearchMessage        = "Please enter a search term."
	PlaylistNameMessage       = "Please enter a playlist name."
	DuplicateItemMessage      = "This video is already in the playlist."
	MissingPlaylistMessage    = "Playlist not found."
)
