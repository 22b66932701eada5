// package shared defines helpers used across the qloudsound service
package shared

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// FormatTime renders t as an ISO-8601 (RFC 3339) UTC string.
//
// Timestamps are persisted as TEXT columns, so every timestamp in the
// system goes through here to keep lexicographic and chronological
// ordering equivalent.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Now returns the current time formatted with [FormatTime].
func Now() string {
	return FormatTime(time.Now())
}
