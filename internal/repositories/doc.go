// Package repositories implements the persistent store adapter for vidshelf.
//
// State is kept as string-keyed JSON documents, one value per key, mirroring an origin-scoped key-value store.
// Writes replace the whole document; there are no partial writes and no locking, so the last writer wins.
//
// Key Implementations:
//   - [SQLiteDocuments] : Durable documents in a SQLite table (also used for the CLI session database)
//   - [MemoryDocuments] : Process-local documents for HTTP cookie sessions, the TUI and tests
//   - [RedisDocuments] : Prefixed, optionally expiring documents for shared HTTP sessions
//   - [Store] : JSON encode/decode over any [Documents] backend
//
// [Read] never fails: a missing key, a backend error or an undecodable value all yield the caller's fallback.
// Corruption is treated as empty rather than fatal.
package repositories
