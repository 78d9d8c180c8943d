// Package services defines the [Searcher] interface for the remote video catalog and implements it for the YouTube Data API v3.
//
// # YouTube Implementation
//
// [YouTubeService] performs two calls per search:
//   - GET /search?part=snippet&type=video : ids, titles, channels and thumbnails
//   - GET /videos?part=contentDetails,statistics : duration and view count for the returned ids
//
// The API key travels as the key query parameter. Outbound requests share a [rate.Limiter].
//
// # Error Handling
//
// Input problems are reported before any request is made:
//   - [shared.ErrInvalidInput] : blank query
//   - [shared.ErrMissingCredentials] : blank API key
//
// Every remote failure (transport, non-2xx status, API error body, undecodable response) wraps
// [shared.ErrRemoteSearch]. Callers show [shared.SearchFailedMessage] and do not retry.
package services
