package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/vidshelf/internal/identity"
	"github.com/desertthunder/vidshelf/internal/repositories"
	"github.com/desertthunder/vidshelf/internal/session"
	"github.com/desertthunder/vidshelf/internal/shared"
	"github.com/urfave/cli/v3"
)

// profile is the printable part of a user; the password never leaves the store.
type profile struct {
	Username  string    `json:"username"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// Register creates an account from the form flags.
func (r *Runner) Register(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	form := identity.Registration{
		Username:  cmd.String("username"),
		FullName:  cmd.String("name"),
		Email:     cmd.String("email"),
		AvatarURL: cmd.String("avatar"),
		Password:  cmd.String("password"),
		Confirm:   cmd.String("confirm"),
	}

	user, err := r.users.Enroll(ctx, form)
	if err != nil {
		return err
	}

	r.writePlain("✓ Account created for %s\n", user.Username)
	r.writePlain("Next: run 'vidshelf login -u %s' to start a session\n", user.Username)
	return nil
}

// Login checks credentials and records the session identity.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	sc, err := r.guard.Login(ctx, cmd.String("username"), cmd.String("password"))
	if err != nil {
		return err
	}

	r.writePlain("✓ Logged in as %s\n", sc.Username)
	r.writePlain("→ Next: %s\n", session.ResolveNext(cmd.String("next")))
	return nil
}

// Logout clears the session identity.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}
	if err := r.guard.Logout(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Logged out\n")
}

// Whoami prints the logged-in user's profile.
func (r *Runner) Whoami(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	user, ok := r.guard.CurrentUser(ctx)
	if !ok {
		return r.writePlain("Not logged in\n")
	}

	p := profile{
		Username:  user.Username,
		FullName:  user.FullName,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}
	if cmd.Bool("json") {
		return r.writeJSON(p, cmd.Bool("pretty"))
	}

	r.writePlain("Username: %s\n", p.Username)
	if p.FullName != "" {
		r.writePlain("Name: %s\n", p.FullName)
	}
	if p.Email != "" {
		r.writePlain("Email: %s\n", p.Email)
	}
	if p.AvatarURL != "" {
		r.writePlain("Avatar: %s\n", p.AvatarURL)
	}
	return nil
}

// APIKeySet saves the YouTube Data API key used by search.
func (r *Runner) APIKeySet(ctx context.Context, cmd *cli.Command) error {
	sc, err := r.requireAuth(ctx, "search")
	if err != nil {
		return err
	}

	key := strings.TrimSpace(cmd.StringArg("key"))
	if key == "" {
		return fmt.Errorf("%w: %s", shared.ErrInvalidArgument, shared.InvalidAPIKeyMessage)
	}
	if err := r.durable.Write(ctx, repositories.KeyAPIKey, key); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}

	r.logger.Info("api key saved", "user", sc.Username)
	return r.writePlain("✓ API key saved\n")
}

// APIKeyShow reports whether an API key is available, without printing it.
func (r *Runner) APIKeyShow(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireAuth(ctx, "search"); err != nil {
		return err
	}

	key := r.apiKey(ctx)
	if key == "" {
		return r.writePlain("No API key saved. Run 'vidshelf apikey set <key>'.\n")
	}
	return r.writePlain("API key saved (ending %s)\n", lastN(key, 4))
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return strings.Repeat("*", len(s))
	}
	return s[len(s)-n:]
}
