// package formatter provides functions to export catalog and submission data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/mikelobato/qloudsound-api/internal/models"
)

// ExportCatalogToCSV converts catalog entries to CSV format with columns: ID, Title, Status, ISRC, UPC, SubmittedAt
func ExportCatalogToCSV(entries []*models.CatalogEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Status", "ISRC", "UPC", "SubmittedAt"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range entries {
		record := []string{
			entry.ID,
			entry.Title,
			string(entry.Status),
			entry.ISRC,
			entry.UPC,
			entry.SubmittedAt,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportCatalogToMarkdown converts catalog entries to a Markdown listing
func ExportCatalogToMarkdown(title string, entries []*models.CatalogEntry) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(entries)))

	for i, entry := range entries {
		idPart := ""
		if entry.ISRC != "" {
			idPart = fmt.Sprintf(" (ISRC %s)", entry.ISRC)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, entry.Title, entry.Status, idPart, entry.SubmittedAt))
	}

	return buf.Bytes(), nil
}

// ExportSubmissionsToCSV converts submissions to CSV format with columns: ID, Name, Email, Style, Description, Filename, CreatedAt, Status
func ExportSubmissionsToCSV(submissions []*models.Submission) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Email", "Style", "Description", "Filename", "CreatedAt", "Status"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, submission := range submissions {
		record := []string{
			submission.ID,
			submission.Name,
			submission.Email,
			submission.Style,
			submission.Description,
			submission.Filename,
			submission.CreatedAt,
			string(submission.Status),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportSubmissionsToText converts submissions to plain text format
func ExportSubmissionsToText(submissions []*models.Submission) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Song requests: %d\n\n", len(submissions)))

	for i, submission := range submissions {
		buf.WriteString(fmt.Sprintf("%d. %s <%s> - %s [%s] %s\n",
			i+1, submission.Name, submission.Email, submission.Style, submission.Status, submission.CreatedAt))
		if submission.Description != "" {
			buf.WriteString(fmt.Sprintf("   %s\n", submission.Description))
		}
	}

	return buf.Bytes(), nil
}
