package repositories

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/mikelobato/qloudsound-api/internal/shared"
	"golang.org/x/sync/singleflight"
)

// Table names managed by [Schema].
const (
	TableRequests = "requests"
	TableCatalog  = "catalog"
)

var createTableSQL = map[string]string{
	TableRequests: `CREATE TABLE IF NOT EXISTS requests (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		style TEXT NOT NULL,
		description TEXT,
		filename TEXT,
		created_at TEXT NOT NULL,
		status TEXT NOT NULL
	)`,
	TableCatalog: `CREATE TABLE IF NOT EXISTS catalog (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		status TEXT NOT NULL,
		isrc TEXT,
		upc TEXT,
		submitted_at TEXT NOT NULL
	)`,
}

// Schema lazily creates tables on first use and memoizes success per
// process. Safe to call concurrently and repeatedly.
type Schema struct {
	db    *sql.DB
	group singleflight.Group

	mu    sync.Mutex
	ready map[string]bool
}

// NewSchema creates a Schema over the given database connection.
// A nil db is allowed; Ensure then fails with [shared.ErrStorageUnavailable].
func NewSchema(db *sql.DB) *Schema {
	return &Schema{db: db, ready: make(map[string]bool)}
}

// Ensure guarantees the named table exists.
//
// Concurrent first calls share one in-flight CREATE TABLE IF NOT EXISTS
// statement. Success is memoized; failure is not, so a later call retries.
func (s *Schema) Ensure(table string) error {
	if s.db == nil {
		return shared.ErrStorageUnavailable
	}

	s.mu.Lock()
	done := s.ready[table]
	s.mu.Unlock()
	if done {
		return nil
	}

	stmt, ok := createTableSQL[table]
	if !ok {
		return fmt.Errorf("%w: unknown table %q", shared.ErrInvalidArgument, table)
	}

	_, err, _ := s.group.Do(table, func() (any, error) {
		if _, err := s.db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("failed to create table %s: %w", table, err)
		}

		s.mu.Lock()
		s.ready[table] = true
		s.mu.Unlock()
		return nil, nil
	})

	return err
}
