// Package models defines domain entities for the vidshelf video library.
//
// The package contains two categories of types:
//
// 1. Catalog DTOs: Lightweight structs describing data from the remote video catalog
//   - [Video] : Search result shape consumed verbatim by the library engine
//
// 2. Persistent Entities: JSON documents stored through the repositories package
//   - [User] : Registered account keyed by username
//   - [Playlist] : Named, ordered collection owned by exactly one user
//   - [PlaylistItem] : A catalog video reference plus user-local rating and add time
//
// Partial updates to items are expressed with [ItemUpdate], where nil fields are left untouched.
// Outcomes of [AddResult] carry a [Reason] instead of an error for local-recoverable failures.
package models
