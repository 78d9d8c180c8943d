// Package tasks runs long library operations with real-time progress reporting.
//
// # Bulk Export
//
// [Exporter.BulkExport] writes many of a user's playlists at once:
//   - Resolves the requested playlist ids (all playlists when none are given)
//   - Applies the same filter and sort a user sees before writing
//   - Feeds a bounded worker pool through a [rate.Limiter] so cover downloads stay polite
//   - Writes export_manifest.json summarising every result, including failures
//
// # Progress Reporting
//
// Operations send [ProgressUpdate] values on an optional channel. Sends use select with default,
// so a slow or absent reader never blocks the export.
package tasks
