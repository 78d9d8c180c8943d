package identity

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/repositories"
	"github.com/desertthunder/vidshelf/internal/shared"
)

// Store is the user collection over the durable document store.
type Store struct {
	docs   *repositories.Store
	logger *log.Logger
	now    func() time.Time

	mu sync.Mutex
}

// NewStore creates an identity [Store]. A nil logger discards output.
func NewStore(docs *repositories.Store, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Store{docs: docs, logger: logger, now: time.Now}
}

// WithClock replaces the clock used to stamp CreatedAt.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// ListUsers returns every registered user in registration order.
func (s *Store) ListUsers(ctx context.Context) []models.User {
	users := repositories.Read(ctx, s.docs, repositories.KeyUsers, []models.User{})
	if users == nil {
		return []models.User{}
	}
	return users
}

// FindUser looks up a user by exact username.
func (s *Store) FindUser(ctx context.Context, username string) (*models.User, bool) {
	for _, u := range s.ListUsers(ctx) {
		if u.Username == username {
			return &u, true
		}
	}
	return nil, false
}

// Register appends candidate to the collection.
//
// Only uniqueness is checked here; form validation belongs to [Validate].
func (s *Store) Register(ctx context.Context, candidate models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.FindUser(ctx, candidate.Username); exists {
		return nil, fmt.Errorf("%w: %s", shared.ErrDuplicateUsername, candidate.Username)
	}

	users := s.ListUsers(ctx)
	candidate.CreatedAt = s.now()
	users = append(users, candidate)

	if err := s.docs.Write(ctx, repositories.KeyUsers, users); err != nil {
		return nil, fmt.Errorf("failed to save users: %w", err)
	}

	s.logger.Info("registered user", "username", candidate.Username)
	return &candidate, nil
}

// Enroll validates r and registers it, reporting the first failure in form order:
// missing fields, a taken username, then the field formats.
func (s *Store) Enroll(ctx context.Context, r Registration) (*models.User, error) {
	r = r.Normalize()

	if err := validateRequired(r); err != nil {
		return nil, err
	}
	if _, exists := s.FindUser(ctx, r.Username); exists {
		return nil, fmt.Errorf("%w: %s", shared.ErrDuplicateUsername, DuplicateUsernameMessage)
	}
	if err := validateFormat(r); err != nil {
		return nil, err
	}

	return s.Register(ctx, r.User())
}
