package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Well-known document keys.
const (
	KeyUsers       = "wc_users"
	KeyPlaylists   = "wc_playlists"
	KeyCurrentUser = "wc_currentUser"
	KeyAPIKey      = "wc_youtube_key"
)

// Tables created by the embedded migrations.
const (
	DurableTable = "documents"
	SessionTable = "session_documents"
)

// Documents is a raw string-keyed document store.
type Documents interface {
	Get(ctx context.Context, key string) (string, bool, error) // Get returns the stored value and whether it exists
	Set(ctx context.Context, key, value string) error          // Set replaces the value stored at key
	Delete(ctx context.Context, key string) error              // Delete removes key; deleting a missing key is not an error
	Clear(ctx context.Context) error                           // Clear removes every key in this store
}

// SQLiteDocuments implements [Documents] over a single SQLite table.
type SQLiteDocuments struct {
	db    *sql.DB
	table string
}

// NewSQLiteDocuments creates a [SQLiteDocuments] over table, which must be [DurableTable] or [SessionTable].
func NewSQLiteDocuments(db *sql.DB, table string) (*SQLiteDocuments, error) {
	if table != DurableTable && table != SessionTable {
		return nil, fmt.Errorf("unknown documents table: %s", table)
	}
	return &SQLiteDocuments{db: db, table: table}, nil
}

// Get retrieves the document stored at key
func (r *SQLiteDocuments) Get(ctx context.Context, key string) (string, bool, error) {
	query := fmt.Sprintf("SELECT value FROM %s WHERE key = ?", r.table)

	var value string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query document %s: %w", key, err)
	}

	return value, true, nil
}

// Set upserts the document stored at key
func (r *SQLiteDocuments) Set(ctx context.Context, key, value string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, r.table)

	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to write document %s: %w", key, err)
	}

	return nil
}

// Delete removes the document stored at key
func (r *SQLiteDocuments) Delete(ctx context.Context, key string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE key = ?", r.table)

	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", key, err)
	}

	return nil
}

// Clear removes every document in the table
func (r *SQLiteDocuments) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", r.table)); err != nil {
		return fmt.Errorf("failed to clear %s: %w", r.table, err)
	}
	return nil
}
