package identity

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/repositories"
	"github.com/desertthunder/vidshelf/internal/shared"
	tu "github.com/desertthunder/vidshelf/internal/testing"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(repositories.NewStore(repositories.NewMemoryDocuments(), nil), nil)
}

func validForm() Registration {
	return Registration{
		Username:  "ana",
		FullName:  "Ana Lima",
		Email:     "ana@example.com",
		AvatarURL: "https://example.com/ana.png",
		Password:  "abc123",
		Confirm:   "abc123",
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("ListUsers empty", func(t *testing.T) {
		s := setupStore(t)
		users := s.ListUsers(ctx)
		if users == nil || len(users) != 0 {
			t.Errorf("expected empty non-nil list, got %v", users)
		}
	})

	t.Run("Register stamps CreatedAt", func(t *testing.T) {
		start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		s := setupStore(t).WithClock(tu.FixedClock(start, time.Second))

		u, err := s.Register(ctx, models.User{Username: "ana", Password: "abc123"})
		if err != nil {
			t.Fatalf("failed to register: %v", err)
		}
		if !u.CreatedAt.Equal(start) {
			t.Errorf("expected CreatedAt %v, got %v", start, u.CreatedAt)
		}

		found, ok := s.FindUser(ctx, "ana")
		if !ok {
			t.Fatal("expected to find registered user")
		}
		if found.Password != "abc123" {
			t.Errorf("expected verbatim password, got %q", found.Password)
		}
	})

	t.Run("Register keeps order", func(t *testing.T) {
		s := setupStore(t)
		for _, name := range []string{"a", "b", "c"} {
			if _, err := s.Register(ctx, models.User{Username: name}); err != nil {
				t.Fatalf("failed to register %s: %v", name, err)
			}
		}

		users := s.ListUsers(ctx)
		if len(users) != 3 || users[0].Username != "a" || users[2].Username != "c" {
			t.Errorf("unexpected order: %+v", users)
		}
	})

	t.Run("Register duplicate", func(t *testing.T) {
		s := setupStore(t)
		_, _ = s.Register(ctx, models.User{Username: "ana"})

		_, err := s.Register(ctx, models.User{Username: "ana"})
		if !errors.Is(err, shared.ErrDuplicateUsername) {
			t.Errorf("expected ErrDuplicateUsername, got %v", err)
		}
		if n := len(s.ListUsers(ctx)); n != 1 {
			t.Errorf("expected 1 user, got %d", n)
		}
	})

	t.Run("FindUser is case sensitive", func(t *testing.T) {
		s := setupStore(t)
		_, _ = s.Register(ctx, models.User{Username: "Ana"})

		if _, ok := s.FindUser(ctx, "ana"); ok {
			t.Error("expected case-sensitive lookup")
		}
	})

	t.Run("corrupt document reads as empty", func(t *testing.T) {
		docs := repositories.NewMemoryDocuments()
		_ = docs.Set(ctx, repositories.KeyUsers, "{not json")
		s := NewStore(repositories.NewStore(docs, nil), nil)

		if n := len(s.ListUsers(ctx)); n != 0 {
			t.Errorf("expected empty list for corrupt data, got %d", n)
		}
		if _, err := s.Register(ctx, models.User{Username: "ana"}); err != nil {
			t.Fatalf("register over corrupt data: %v", err)
		}
		if n := len(s.ListUsers(ctx)); n != 1 {
			t.Errorf("expected 1 user, got %d", n)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *Registration)
		want   string
	}{
		{name: "valid", modify: func(r *Registration) {}, want: ""},
		{name: "missing username", modify: func(r *Registration) { r.Username = "  " }, want: RequiredMessage},
		{name: "missing confirm", modify: func(r *Registration) { r.Confirm = "" }, want: RequiredMessage},
		{name: "bad email", modify: func(r *Registration) { r.Email = "ana.example.com" }, want: EmailMessage},
		{name: "email without dot", modify: func(r *Registration) { r.Email = "ana@example" }, want: EmailMessage},
		{name: "relative avatar", modify: func(r *Registration) { r.AvatarURL = "ana.png" }, want: AvatarMessage},
		{name: "short password", modify: func(r *Registration) { r.Password, r.Confirm = "ab1", "ab1" }, want: PasswordMessage},
		{name: "no digit", modify: func(r *Registration) { r.Password, r.Confirm = "abcdef", "abcdef" }, want: PasswordMessage},
		{name: "no letter", modify: func(r *Registration) { r.Password, r.Confirm = "123456", "123456" }, want: PasswordMessage},
		{name: "mismatch", modify: func(r *Registration) { r.Confirm = "abc124" }, want: ConfirmMessage},
		{name: "email before password", modify: func(r *Registration) { r.Email = "x"; r.Password = "x" }, want: EmailMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validForm()
			tt.modify(&r)

			err := Validate(r)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("expected valid form, got %v", err)
				}
				return
			}
			if !errors.Is(err, shared.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected message %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestStrongPassword(t *testing.T) {
	tests := map[string]bool{
		"abc123": true,
		"a1b2c3": true,
		"ABCDE9": true,
		"abc12":  false,
		"abcdef": false,
		"123456": false,
		"ééééé1": false,
	}
	for in, want := range tests {
		if got := strongPassword(in); got != want {
			t.Errorf("strongPassword(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestEnroll(t *testing.T) {
	ctx := context.Background()

	t.Run("registers trimmed user", func(t *testing.T) {
		s := setupStore(t)
		r := validForm()
		r.Username = "  ana "

		u, err := s.Enroll(ctx, r)
		if err != nil {
			t.Fatalf("failed to enroll: %v", err)
		}
		if u.Username != "ana" || u.FullName != "Ana Lima" {
			t.Errorf("unexpected user: %+v", u)
		}
	})

	t.Run("duplicate reported before format errors", func(t *testing.T) {
		s := setupStore(t)
		_, _ = s.Register(ctx, models.User{Username: "ana"})

		r := validForm()
		r.Email = "bad"
		_, err := s.Enroll(ctx, r)
		if !errors.Is(err, shared.ErrDuplicateUsername) {
			t.Errorf("expected ErrDuplicateUsername, got %v", err)
		}
	})

	t.Run("required reported before duplicate", func(t *testing.T) {
		s := setupStore(t)
		_, _ = s.Register(ctx, models.User{Username: "ana"})

		r := validForm()
		r.FullName = ""
		_, err := s.Enroll(ctx, r)
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})
}
