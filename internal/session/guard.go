package session

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidshelf/internal/identity"
	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/repositories"
	"github.com/desertthunder/vidshelf/internal/shared"
)

// DefaultLanding is where a successful login goes when no destination was requested.
const DefaultLanding = "search"

// LoginPath is the login view location without the query string.
const LoginPath = "login"

// MissingCredentialsMessage is reported when either login field is blank.
const MissingCredentialsMessage = "Please enter a username and password."

// Context identifies the authenticated user for a single call.
type Context struct {
	Username string `json:"username"`
}

// IsZero reports whether c carries no identity.
func (c Context) IsZero() bool {
	return c.Username == ""
}

// Navigator sends the user somewhere else, e.g. an HTTP redirect or a CLI hint.
type Navigator interface {
	Redirect(location string)
}

// Guard resolves and mutates the session identity.
type Guard struct {
	session *repositories.Store
	users   *identity.Store
	logger  *log.Logger
}

// NewGuard creates a [Guard] over the session-scoped store and the user collection.
func NewGuard(session *repositories.Store, users *identity.Store, logger *log.Logger) *Guard {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Guard{session: session, users: users, logger: logger}
}

// Login checks the credentials against the user collection and records the session identity.
//
// Passwords are compared verbatim.
func (g *Guard) Login(ctx context.Context, username, password string) (Context, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Context{}, fmt.Errorf("%w: %s", shared.ErrValidation, MissingCredentialsMessage)
	}

	user, ok := g.users.FindUser(ctx, username)
	if !ok || user.Password != password {
		g.logger.Warn("login rejected", "username", username)
		return Context{}, shared.ErrInvalidCredentials
	}

	if err := g.session.Write(ctx, repositories.KeyCurrentUser, username); err != nil {
		return Context{}, fmt.Errorf("failed to save session: %w", err)
	}

	g.logger.Info("logged in", "username", username)
	return Context{Username: username}, nil
}

// Logout clears the session identity whether or not one exists.
func (g *Guard) Logout(ctx context.Context) error {
	if err := g.session.Remove(ctx, repositories.KeyCurrentUser); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Current returns the session context when a user is logged in.
func (g *Guard) Current(ctx context.Context) (Context, bool) {
	name := repositories.Read(ctx, g.session, repositories.KeyCurrentUser, "")
	if name == "" {
		return Context{}, false
	}
	return Context{Username: name}, true
}

// CurrentUser resolves the session identity to a profile.
//
// A session naming a user that no longer exists yields a stand-in carrying only the username.
func (g *Guard) CurrentUser(ctx context.Context) (*models.User, bool) {
	sc, ok := g.Current(ctx)
	if !ok {
		return nil, false
	}
	if user, found := g.users.FindUser(ctx, sc.Username); found {
		return user, true
	}
	return &models.User{Username: sc.Username}, true
}

// RequireAuth returns the session context, or sends nav to the login view with requested as the
// post-login destination.
func (g *Guard) RequireAuth(ctx context.Context, nav Navigator, requested string) (Context, bool) {
	if sc, ok := g.Current(ctx); ok {
		return sc, true
	}

	location := LoginLocation(requested)
	g.logger.Debug("authentication required", "next", requested)
	nav.Redirect(location)
	return Context{}, false
}

// LoginLocation builds the login location carrying requested as the encoded next parameter.
func LoginLocation(requested string) string {
	if requested == "" {
		return LoginPath
	}
	return LoginPath + "?next=" + encodeComponent(requested)
}

// ResolveNext returns the post-login destination for a next parameter.
//
// Absolute URLs and scheme-relative paths are refused so a login cannot bounce to another origin.
func ResolveNext(next string) string {
	if next == "" {
		return DefaultLanding
	}

	decoded, err := url.QueryUnescape(next)
	if err != nil {
		decoded = next
	}
	decoded = strings.TrimSpace(decoded)
	if decoded == "" || strings.HasPrefix(decoded, "//") || strings.HasPrefix(decoded, `/\`) {
		return DefaultLanding
	}

	u, err := url.Parse(decoded)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return DefaultLanding
	}
	return decoded
}

// encodeComponent escapes s for use as a query value, encoding spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
