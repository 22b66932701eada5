// package models defines the data model for the song request service
package models

import (
	"fmt"

	"github.com/mikelobato/qloudsound-api/internal/shared"
)

// SubmissionStatus tracks the lifecycle of a song request.
type SubmissionStatus string

const (
	StatusPending    SubmissionStatus = "pending"
	StatusInProgress SubmissionStatus = "in_progress"
	StatusCompleted  SubmissionStatus = "completed"
)

// CatalogStatus distinguishes requested tracks from released ones.
type CatalogStatus string

const (
	CatalogRequested CatalogStatus = "requested"
	CatalogPublished CatalogStatus = "published"
)

// Submission is a song request captured from the public intake form.
//
// The id is immutable and unique across all submissions; rows are never
// deleted once written.
type Submission struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Style       string           `json:"style"`
	Description string           `json:"description,omitempty"`
	Filename    string           `json:"filename,omitempty"`
	CreatedAt   string           `json:"createdAt"`
	Status      SubmissionStatus `json:"status"`
}

// Validate checks the submission invariants before it is persisted.
func (s *Submission) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: submission id is required", shared.ErrInvalidInput)
	}
	if s.Name == "" || s.Email == "" || s.Style == "" {
		return fmt.Errorf("%w: name, email and style are required", shared.ErrInvalidInput)
	}
	switch s.Status {
	case StatusPending, StatusInProgress, StatusCompleted:
	default:
		return fmt.Errorf("%w: unknown submission status %q", shared.ErrInvalidInput, s.Status)
	}
	if s.CreatedAt == "" {
		return fmt.Errorf("%w: createdAt is required", shared.ErrInvalidInput)
	}
	return nil
}

// CatalogEntry is a track record, either derived from a submission
// (requested) or part of the released discography (published).
//
// SubmittedAt is the sole sort key when listing; it is stored as an
// ISO-8601 string so lexicographic order equals chronological order.
type CatalogEntry struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Status      CatalogStatus `json:"status"`
	ISRC        string        `json:"isrc,omitempty"`
	UPC         string        `json:"upc,omitempty"`
	SubmittedAt string        `json:"submittedAt"`
}

// Validate checks the catalog entry invariants before it is persisted.
func (e *CatalogEntry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("%w: catalog entry id is required", shared.ErrInvalidInput)
	}
	if e.Title == "" {
		return fmt.Errorf("%w: catalog entry title is required", shared.ErrInvalidInput)
	}
	switch e.Status {
	case CatalogRequested, CatalogPublished:
	default:
		return fmt.Errorf("%w: unknown catalog status %q", shared.ErrInvalidInput, e.Status)
	}
	if e.SubmittedAt == "" {
		return fmt.Errorf("%w: submittedAt is required", shared.ErrInvalidInput)
	}
	return nil
}

// DerivedCatalogEntry builds the requested catalog row that mirrors a
// submission: same id, same timestamp, title "{name} - {style}".
func DerivedCatalogEntry(s *Submission) *CatalogEntry {
	return &CatalogEntry{
		ID:          s.ID,
		Title:       fmt.Sprintf("%s - %s", s.Name, s.Style),
		Status:      CatalogRequested,
		SubmittedAt: s.CreatedAt,
	}
}

// SubmissionStore persists song requests.
type SubmissionStore interface {
	Save(submission *Submission) error        // Save upserts a submission by id
	Get(id string) (*Submission, error)       // Get retrieves a submission by id
	List() ([]*Submission, error)             // List returns all submissions, newest first
}

// CatalogStore persists catalog entries.
type CatalogStore interface {
	Save(entry *CatalogEntry) error                   // Save upserts a catalog entry by id
	Get(id string) (*CatalogEntry, error)             // Get retrieves a catalog entry by id
	List(status CatalogStatus) ([]*CatalogEntry, error) // List returns entries sorted by submittedAt desc; empty status means all
	Seed() error                                      // Seed inserts the published discography, ignoring existing rows
}
