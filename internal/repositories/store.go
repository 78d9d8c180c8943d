package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidshelf/internal/shared"
)

// Store serializes values to JSON documents over a [Documents] backend.
type Store struct {
	docs   Documents
	logger *log.Logger
}

// NewStore creates a [Store] over docs. A nil logger discards output.
func NewStore(docs Documents, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Store{docs: docs, logger: logger}
}

// Read decodes the document at key into a T.
//
// A missing key, a backend failure, a JSON null or a decode failure all return fallback.
func Read[T any](ctx context.Context, s *Store, key string, fallback T) T {
	raw, ok, err := s.docs.Get(ctx, key)
	if err != nil {
		s.logger.Warn("document read failed, using fallback", "key", key, "error", err)
		return fallback
	}
	if !ok || raw == "" || raw == "null" {
		return fallback
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.logger.Debug("undecodable document treated as empty", "key", key, "error", err)
		return fallback
	}

	return v
}

// Write encodes value as JSON and stores it at key, replacing any previous document.
func (s *Store) Write(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	return s.docs.Set(ctx, key, string(data))
}

// Remove deletes the document at key.
func (s *Store) Remove(ctx context.Context, key string) error {
	return s.docs.Delete(ctx, key)
}
