// Package models defines domain entities and persistence interfaces for the qloudsound song request service.
//
// Two entities exist:
//   - [Submission] : a song request from the public intake form
//   - [CatalogEntry] : a track, either derived from a submission (requested) or part of the released discography (published)
//
// Both carry their timestamps as ISO-8601 strings so the TEXT columns backing them sort chronologically.
// A requested catalog entry shares its id and timestamp with the submission it mirrors (see [DerivedCatalogEntry]).
//
// The [SubmissionStore] and [CatalogStore] interfaces describe the persistence operations the
// HTTP handlers and CLI commands rely on; internal/repositories implements them over SQLite.
// [PublishedTracks] is the fixed seed list for the published side of the catalog.
package models
