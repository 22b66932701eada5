package repositories

import (
	"database/sql"
	"fmt"

	"github.com/mikelobato/qloudsound-api/internal/models"
	"github.com/mikelobato/qloudsound-api/internal/shared"
)

// SubmissionRepository implements models.SubmissionStore over the
// requests table.
//
// Save uses INSERT OR REPLACE by id, so re-saving a submission is an
// upsert rather than an error.
type SubmissionRepository struct {
	db     *sql.DB
	schema *Schema
}

// NewSubmissionRepository creates a new SubmissionRepository with the given database connection
func NewSubmissionRepository(db *sql.DB, schema *Schema) *SubmissionRepository {
	return &SubmissionRepository{db: db, schema: schema}
}

// Save upserts a [models.Submission] by id.
func (r *SubmissionRepository) Save(submission *models.Submission) error {
	if err := submission.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := r.schema.Ensure(TableRequests); err != nil {
		return err
	}

	query := `
		INSERT OR REPLACE INTO requests (id, name, email, style, description, filename, created_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		submission.ID,
		submission.Name,
		submission.Email,
		submission.Style,
		nullable(submission.Description),
		nullable(submission.Filename),
		submission.CreatedAt,
		string(submission.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}

	return nil
}

// Get retrieves a submission by id.
func (r *SubmissionRepository) Get(id string) (*models.Submission, error) {
	if err := r.schema.Ensure(TableRequests); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, email, style, description, filename, created_at, status
		FROM requests
		WHERE id = ?
	`

	return scanSubmission(r.db.QueryRow(query, id))
}

// List retrieves all submissions, newest first.
func (r *SubmissionRepository) List() ([]*models.Submission, error) {
	if err := r.schema.Ensure(TableRequests); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, email, style, description, filename, created_at, status
		FROM requests
		ORDER BY datetime(created_at) DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*models.Submission
	for rows.Next() {
		submission, err := scanSubmissionRow(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, submission)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return submissions, nil
}

func scanSubmission(row *sql.Row) (*models.Submission, error) {
	var (
		id, name, email, style, createdAt, status string
		description, filename                     sql.NullString
	)

	err := row.Scan(&id, &name, &email, &style, &description, &filename, &createdAt, &status)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: submission", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan submission: %w", err)
	}

	return &models.Submission{
		ID:          id,
		Name:        name,
		Email:       email,
		Style:       style,
		Description: description.String,
		Filename:    filename.String,
		CreatedAt:   createdAt,
		Status:      models.SubmissionStatus(status),
	}, nil
}

func scanSubmissionRow(rows *sql.Rows) (*models.Submission, error) {
	var (
		id, name, email, style, createdAt, status string
		description, filename                     sql.NullString
	)

	if err := rows.Scan(&id, &name, &email, &style, &description, &filename, &createdAt, &status); err != nil {
		return nil, fmt.Errorf("failed to scan submission: %w", err)
	}

	return &models.Submission{
		ID:          id,
		Name:        name,
		Email:       email,
		Style:       style,
		Description: description.String,
		Filename:    filename.String,
		CreatedAt:   createdAt,
		Status:      models.SubmissionStatus(status),
	}, nil
}

// nullable maps empty optional strings to NULL so the stored row matches
// the wire format's absent fields.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
