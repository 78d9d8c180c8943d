package library

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/vidshelf/internal/identity"
	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/repositories"
	"github.com/desertthunder/vidshelf/internal/session"
	"github.com/desertthunder/vidshelf/internal/shared"
	tu "github.com/desertthunder/vidshelf/internal/testing"
)

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()

	db, err := shared.OpenMigrated(":memory:", 0, 0)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	durableDocs, err := repositories.NewSQLiteDocuments(db, repositories.DurableTable)
	if err != nil {
		t.Fatalf("failed to create documents: %v", err)
	}
	sessionDocs, err := repositories.NewSQLiteDocuments(db, repositories.SessionTable)
	if err != nil {
		t.Fatalf("failed to create session documents: %v", err)
	}

	durable := repositories.NewStore(durableDocs, nil)
	users := identity.NewStore(durable, nil)
	guard := session.NewGuard(repositories.NewStore(sessionDocs, nil), users, nil)
	engine := NewEngine(durable, nil)

	if _, err := users.Register(ctx, models.User{Username: "ana", Password: "abc123"}); err != nil {
		t.Fatalf("failed to register: %v", err)
	}

	if _, err := guard.Login(ctx, "ana", "wrong1"); !errors.Is(err, shared.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := guard.Login(ctx, "ana", "abc123"); err != nil {
		t.Fatalf("expected login to succeed: %v", err)
	}

	sc, ok := guard.RequireAuth(ctx, &tu.MockNavigator{}, "playlists")
	if !ok {
		t.Fatal("expected authenticated session")
	}

	p, err := engine.CreatePlaylist(ctx, sc, "Favorites")
	if err != nil {
		t.Fatalf("failed to create playlist: %v", err)
	}

	res, err := engine.AddItem(ctx, sc, p.ID, tu.SampleVideo("v1", "One"))
	if err != nil || !res.OK {
		t.Fatalf("failed to add item: %+v %v", res, err)
	}

	playlists := engine.ListPlaylists(ctx, sc)
	if len(playlists) != 1 || len(playlists[0].Items) != 1 || playlists[0].Items[0].Rating != 0 {
		t.Fatalf("unexpected playlists: %+v", playlists)
	}

	if _, err := engine.RemovePlaylist(ctx, sc, p.ID); err != nil {
		t.Fatalf("failed to remove playlist: %v", err)
	}
	if n := len(engine.ListPlaylists(ctx, sc)); n != 0 {
		t.Errorf("expected no playlists, got %d", n)
	}

	if err := guard.Logout(ctx); err != nil {
		t.Fatalf("failed to logout: %v", err)
	}
	nav := &tu.MockNavigator{}
	if _, ok := guard.RequireAuth(ctx, nav, "playlists"); ok {
		t.Error("expected logged out session to require auth")
	}
	if nav.Last() != "login?next=playlists" {
		t.Errorf("unexpected redirect: %q", nav.Last())
	}
}
