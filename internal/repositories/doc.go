// Package repositories implements the persistence layer over SQLite.
//
// [SubmissionRepository] and [CatalogRepository] implement the store
// interfaces in internal/models using database/sql prepared statements.
// Writes are upserts (INSERT OR REPLACE by primary key) and the published
// discography is seeded with INSERT OR IGNORE, so neither path can hit a
// uniqueness violation.
//
// Tables are created lazily: every operation goes through [Schema.Ensure],
// which issues CREATE TABLE IF NOT EXISTS once per process per table.
// A successful creation is memoized; a failure is not, so the next caller
// retries. Concurrent first calls collapse into a single statement via
// singleflight, and the statement itself is idempotent as the safety net.
package repositories
