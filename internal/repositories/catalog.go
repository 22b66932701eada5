package repositories

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/mikelobato/qloudsound-api/internal/models"
	"github.com/mikelobato/qloudsound-api/internal/shared"
	"golang.org/x/sync/singleflight"
)

// CatalogRepository implements models.CatalogStore over the catalog table.
//
// List triggers a one-time seed of the published discography before the
// first read. Seeding uses INSERT OR IGNORE so concurrent first reads or
// repeated process restarts never duplicate or overwrite rows.
type CatalogRepository struct {
	db     *sql.DB
	schema *Schema
	group  singleflight.Group

	mu     sync.Mutex
	seeded bool
}

// NewCatalogRepository creates a new CatalogRepository with the given database connection
func NewCatalogRepository(db *sql.DB, schema *Schema) *CatalogRepository {
	return &CatalogRepository{db: db, schema: schema}
}

// Save upserts a [models.CatalogEntry] by id.
func (r *CatalogRepository) Save(entry *models.CatalogEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := r.schema.Ensure(TableCatalog); err != nil {
		return err
	}

	query := `
		INSERT OR REPLACE INTO catalog (id, title, status, isrc, upc, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		entry.ID,
		entry.Title,
		string(entry.Status),
		nullable(entry.ISRC),
		nullable(entry.UPC),
		entry.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save catalog entry: %w", err)
	}

	return nil
}

// Get retrieves a catalog entry by id.
func (r *CatalogRepository) Get(id string) (*models.CatalogEntry, error) {
	if err := r.schema.Ensure(TableCatalog); err != nil {
		return nil, err
	}

	query := `
		SELECT id, title, status, isrc, upc, submitted_at
		FROM catalog
		WHERE id = ?
	`

	var (
		entryID, title, status, submittedAt string
		isrc, upc                           sql.NullString
	)

	err := r.db.QueryRow(query, id).Scan(&entryID, &title, &status, &isrc, &upc, &submittedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: catalog entry", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan catalog entry: %w", err)
	}

	return &models.CatalogEntry{
		ID:          entryID,
		Title:       title,
		Status:      models.CatalogStatus(status),
		ISRC:        isrc.String,
		UPC:         upc.String,
		SubmittedAt: submittedAt,
	}, nil
}

// List retrieves catalog entries sorted by submittedAt descending,
// optionally filtered by status (empty status means all). The published
// discography is seeded before the first successful read.
func (r *CatalogRepository) List(status models.CatalogStatus) ([]*models.CatalogEntry, error) {
	if err := r.Seed(); err != nil {
		return nil, err
	}

	query := `
		SELECT id, title, status, isrc, upc, submitted_at
		FROM catalog
	`
	args := []any{}

	if status != "" {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}

	query += " ORDER BY datetime(submitted_at) DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer rows.Close()

	var entries []*models.CatalogEntry
	for rows.Next() {
		var (
			id, title, entryStatus, submittedAt string
			isrc, upc                           sql.NullString
		)

		if err := rows.Scan(&id, &title, &entryStatus, &isrc, &upc, &submittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan catalog entry: %w", err)
		}

		entries = append(entries, &models.CatalogEntry{
			ID:          id,
			Title:       title,
			Status:      models.CatalogStatus(entryStatus),
			ISRC:        isrc.String,
			UPC:         upc.String,
			SubmittedAt: submittedAt,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// Seed inserts the published discography with INSERT OR IGNORE.
//
// Memoized like [Schema.Ensure]: success is remembered for the process
// lifetime, failure is not. Concurrent callers share one in-flight seed.
func (r *CatalogRepository) Seed() error {
	if err := r.schema.Ensure(TableCatalog); err != nil {
		return err
	}

	r.mu.Lock()
	done := r.seeded
	r.mu.Unlock()
	if done {
		return nil
	}

	_, err, _ := r.group.Do("seed", func() (any, error) {
		query := `
			INSERT OR IGNORE INTO catalog (id, title, status, isrc, upc, submitted_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`

		for _, track := range models.PublishedTracks() {
			_, err := r.db.Exec(query,
				track.ID,
				track.Title,
				string(track.Status),
				nullable(track.ISRC),
				nullable(track.UPC),
				track.SubmittedAt,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to seed catalog entry %s: %w", track.ID, err)
			}
		}

		r.mu.Lock()
		r.seeded = true
		r.mu.Unlock()
		return nil, nil
	})

	return err
}
