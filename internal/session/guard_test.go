package session

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/vidshelf/internal/identity"
	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/repositories"
	"github.com/desertthunder/vidshelf/internal/shared"
	tu "github.com/desertthunder/vidshelf/internal/testing"
)

func setupGuard(t *testing.T) (*Guard, *identity.Store) {
	t.Helper()

	users := identity.NewStore(repositories.NewStore(repositories.NewMemoryDocuments(), nil), nil)
	sess := repositories.NewStore(repositories.NewMemoryDocuments(), nil)

	if _, err := users.Register(context.Background(), models.User{Username: "ana", FullName: "Ana Lima", Password: "abc123"}); err != nil {
		t.Fatalf("failed to register: %v", err)
	}
	return NewGuard(sess, users, nil), users
}

func TestGuardLogin(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "valid", username: "ana", password: "abc123"},
		{name: "trimmed username", username: " ana ", password: "abc123"},
		{name: "wrong password", username: "ana", password: "abc124", wantErr: shared.ErrInvalidCredentials},
		{name: "password is not trimmed", username: "ana", password: "abc123 ", wantErr: shared.ErrInvalidCredentials},
		{name: "unknown user", username: "bob", password: "abc123", wantErr: shared.ErrInvalidCredentials},
		{name: "wrong case", username: "Ana", password: "abc123", wantErr: shared.ErrInvalidCredentials},
		{name: "blank", username: "", password: "", wantErr: shared.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := setupGuard(t)

			sc, err := g.Login(ctx, tt.username, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if _, ok := g.Current(ctx); ok {
					t.Error("failed login must not create a session")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sc.Username != "ana" {
				t.Errorf("expected ana, got %q", sc.Username)
			}
			if cur, ok := g.Current(ctx); !ok || cur != sc {
				t.Errorf("expected current session %+v, got %+v", sc, cur)
			}
		})
	}
}

func TestGuardLogout(t *testing.T) {
	ctx := context.Background()
	g, _ := setupGuard(t)

	if err := g.Logout(ctx); err != nil {
		t.Fatalf("logout without session should succeed: %v", err)
	}

	_, _ = g.Login(ctx, "ana", "abc123")
	if err := g.Logout(ctx); err != nil {
		t.Fatalf("failed to logout: %v", err)
	}
	if _, ok := g.Current(ctx); ok {
		t.Error("expected session to be cleared")
	}
}

func TestGuardCurrentUser(t *testing.T) {
	ctx := context.Background()

	t.Run("no session", func(t *testing.T) {
		g, _ := setupGuard(t)
		if u, ok := g.CurrentUser(ctx); ok || u != nil {
			t.Errorf("expected no user, got %+v", u)
		}
	})

	t.Run("known user", func(t *testing.T) {
		g, _ := setupGuard(t)
		_, _ = g.Login(ctx, "ana", "abc123")

		u, ok := g.CurrentUser(ctx)
		if !ok || u.FullName != "Ana Lima" {
			t.Errorf("expected full profile, got %+v", u)
		}
	})

	t.Run("unknown user yields stand-in", func(t *testing.T) {
		g, _ := setupGuard(t)
		_ = g.session.Write(ctx, repositories.KeyCurrentUser, "ghost")

		u, ok := g.CurrentUser(ctx)
		if !ok || u == nil {
			t.Fatal("expected stand-in user")
		}
		if u.Username != "ghost" || u.FullName != "" {
			t.Errorf("unexpected stand-in: %+v", u)
		}
		if u.DisplayName() != "ghost" {
			t.Errorf("expected display name ghost, got %q", u.DisplayName())
		}
	})
}

func TestGuardRequireAuth(t *testing.T) {
	ctx := context.Background()

	t.Run("redirects when anonymous", func(t *testing.T) {
		g, _ := setupGuard(t)
		nav := &tu.MockNavigator{}

		_, ok := g.RequireAuth(ctx, nav, "playlists?playlistId=p1")
		if ok {
			t.Fatal("expected RequireAuth to fail")
		}
		if want := "login?next=playlists%3FplaylistId%3Dp1"; nav.Last() != want {
			t.Errorf("expected redirect %q, got %q", want, nav.Last())
		}
	})

	t.Run("passes when logged in", func(t *testing.T) {
		g, _ := setupGuard(t)
		nav := &tu.MockNavigator{}
		_, _ = g.Login(ctx, "ana", "abc123")

		sc, ok := g.RequireAuth(ctx, nav, "playlists")
		if !ok || sc.Username != "ana" {
			t.Errorf("expected ana, got %+v (ok=%v)", sc, ok)
		}
		if len(nav.Locations) != 0 {
			t.Errorf("expected no redirect, got %v", nav.Locations)
		}
	})
}

func TestLoginLocation(t *testing.T) {
	tests := []struct {
		requested string
		want      string
	}{
		{"", "login"},
		{"search", "login?next=search"},
		{"/playlists", "login?next=%2Fplaylists"},
		{"search?q=lo fi", "login?next=search%3Fq%3Dlo%20fi"},
	}
	for _, tt := range tests {
		if got := LoginLocation(tt.requested); got != tt.want {
			t.Errorf("LoginLocation(%q) = %q, want %q", tt.requested, got, tt.want)
		}
	}
}

func TestResolveNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"", DefaultLanding},
		{"playlists", "playlists"},
		{"playlists%3FplaylistId%3Dp1", "playlists?playlistId=p1"},
		{"/playlists", "/playlists"},
		{"https://evil.example.com", DefaultLanding},
		{"//evil.example.com", DefaultLanding},
		{"%2F%2Fevil.example.com", DefaultLanding},
		{"javascript:alert(1)", DefaultLanding},
		{"%zz", DefaultLanding},
	}
	for _, tt := range tests {
		if got := ResolveNext(tt.next); got != tt.want {
			t.Errorf("ResolveNext(%q) = %q, want %q", tt.next, got, tt.want)
		}
	}
}

func TestLoginLocationRoundTrip(t *testing.T) {
	requested := "playlists?playlistId=abc&sort=rating"
	loc := LoginLocation(requested)
	next := loc[len("login?next="):]

	if got := ResolveNext(next); got != requested {
		t.Errorf("expected %q after round trip, got %q", requested, got)
	}
}
