package server

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mikelobato/qloudsound-api/internal/models"
	"github.com/mikelobato/qloudsound-api/internal/repositories"
	"github.com/mikelobato/qloudsound-api/internal/shared"
	tu "github.com/mikelobato/qloudsound-api/internal/testing"
)

type testEnv struct {
	db       *sql.DB
	service  *Service
	handler  http.Handler
	notifier *tu.MockNotifier
}

// newTestEnv creates a Service backed by a real in-memory SQLite store
// and a recording notifier.
func newTestEnv(t *testing.T, opts ServiceOpts) *testEnv {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)
	t.Cleanup(func() { db.Close() })

	schema := repositories.NewSchema(db)
	notifier := &tu.MockNotifier{}

	opts.Submissions = repositories.NewSubmissionRepository(db, schema)
	opts.Catalog = repositories.NewCatalogRepository(db, schema)
	opts.Notifier = notifier
	opts.Logger = shared.NewLogger(io.Discard)

	service := NewService(opts)

	return &testEnv{
		db:       db,
		service:  service,
		handler:  service.Handler(),
		notifier: notifier,
	}
}

func (e *testEnv) request(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return payload
}

func (e *testEnv) countRows(t *testing.T, table string) int {
	t.Helper()

	var count int
	if err := e.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		// table may not exist yet when nothing touched the store
		return 0
	}
	return count
}

func TestInfoRoutes(t *testing.T) {
	env := newTestEnv(t, ServiceOpts{Version: "1.2.3"})

	t.Run("root reports service and version", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
			t.Errorf("unexpected content type %s", ct)
		}

		payload := decodeBody(t, rec)
		if payload["service"] != "qloudsound-api" {
			t.Errorf("expected service name, got %v", payload["service"])
		}
		if payload["version"] != "1.2.3" {
			t.Errorf("expected version 1.2.3, got %v", payload["version"])
		}
	})

	t.Run("health reports ok with timestamp", func(t *testing.T) {
		for _, path := range []string{"/health", "/public-site/health"} {
			rec := env.request(t, http.MethodGet, path, "")

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200 for %s, got %d", path, rec.Code)
			}
			payload := decodeBody(t, rec)
			if payload["status"] != "ok" {
				t.Errorf("expected ok status for %s", path)
			}
			if payload["timestamp"] == "" {
				t.Errorf("expected timestamp for %s", path)
			}
		}
	})

	t.Run("public site info includes submit url", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/public-site", "")

		payload := decodeBody(t, rec)
		if payload["service"] != "qloudsound-api:public-site" {
			t.Errorf("expected scoped service name, got %v", payload["service"])
		}
		submit, _ := payload["submit"].(string)
		if !strings.HasSuffix(submit, "/public-site/requests") {
			t.Errorf("expected submit url, got %v", submit)
		}
	})

	t.Run("trailing slashes are tolerated", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/health/", "")
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200 for /health/, got %d", rec.Code)
		}
	})

	t.Run("unmatched routes get a JSON 404", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/nope", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		payload := decodeBody(t, rec)
		if payload["error"] != "not_found" {
			t.Errorf("expected not_found, got %v", payload["error"])
		}
		message, _ := payload["message"].(string)
		if !strings.Contains(message, "GET") || !strings.Contains(message, "/nope") {
			t.Errorf("expected message naming method and path, got %s", message)
		}
	})

	t.Run("wrong method on a known path is a 404", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/health", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestSubmitRoute(t *testing.T) {
	t.Run("valid submission persists both rows", func(t *testing.T) {
		env := newTestEnv(t, ServiceOpts{})

		rec := env.request(t, http.MethodPost, "/public-site/requests",
			`{"name":"Ana","email":"ana@example.com","style":"reggaeton","description":"para mi madre"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		payload := decodeBody(t, rec)
		if payload["ok"] != true {
			t.Errorf("expected ok true, got %v", payload["ok"])
		}
		id, _ := payload["id"].(string)
		if id == "" {
			t.Fatal("expected a fresh id")
		}

		if got := env.countRows(t, "requests"); got != 1 {
			t.Errorf("expected 1 submission row, got %d", got)
		}

		var catalogID, title, status, submittedAt, createdAt string
		if err := env.db.QueryRow("SELECT id, title, status, submitted_at FROM catalog WHERE id = ?", id).
			Scan(&catalogID, &title, &status, &submittedAt); err != nil {
			t.Fatalf("expected a derived catalog row: %v", err)
		}
		if title != "Ana - reggaeton" {
			t.Errorf("expected derived title, got %s", title)
		}
		if status != "requested" {
			t.Errorf("expected requested status, got %s", status)
		}

		if err := env.db.QueryRow("SELECT created_at FROM requests WHERE id = ?", id).Scan(&createdAt); err != nil {
			t.Fatalf("expected a submission row: %v", err)
		}
		if createdAt != submittedAt {
			t.Errorf("expected matching timestamps, got %s vs %s", createdAt, submittedAt)
		}

		if env.notifier.Count() != 1 {
			t.Errorf("expected one notification, got %d", env.notifier.Count())
		}
	})

	t.Run("honeypot rejects bots without writes", func(t *testing.T) {
		env := newTestEnv(t, ServiceOpts{})

		rec := env.request(t, http.MethodPost, "/public-site/requests",
			`{"name":"Ana","email":"ana@example.com","style":"reggaeton","website":"spammy"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if decodeBody(t, rec)["error"] != "invalid_submission" {
			t.Error("expected invalid_submission")
		}
		if env.countRows(t, "requests") != 0 || env.countRows(t, "catalog") != 0 {
			t.Error("expected no writes for honeypot submissions")
		}
		if env.notifier.Count() != 0 {
			t.Error("expected no notification for honeypot submissions")
		}
	})

	t.Run("missing required fields", func(t *testing.T) {
		env := newTestEnv(t, ServiceOpts{})

		for _, body := range []string{
			`{"email":"ana@example.com","style":"reggaeton"}`,
			`{"name":"  ","email":"ana@example.com","style":"reggaeton"}`,
			`{"name":"Ana","style":"reggaeton"}`,
			`{"name":"Ana","email":"ana@example.com"}`,
			``,
		} {
			rec := env.request(t, http.MethodPost, "/public-site/requests", body)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400 for %q, got %d", body, rec.Code)
				continue
			}
			if decodeBody(t, rec)["error"] != "missing_required_fields" {
				t.Errorf("expected missing_required_fields for %q", body)
			}
		}

		if env.countRows(t, "requests") != 0 {
			t.Error("expected no writes for invalid submissions")
		}
	})

	t.Run("malformed JSON body", func(t *testing.T) {
		env := newTestEnv(t, ServiceOpts{})

		rec := env.request(t, http.MethodPost, "/public-site/requests", `{"name": nope}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if decodeBody(t, rec)["error"] != "invalid_submission" {
			t.Error("expected invalid_submission")
		}
	})

	t.Run("notification failure does not change the response", func(t *testing.T) {
		env := newTestEnv(t, ServiceOpts{})
		env.notifier.Err = io.ErrUnexpectedEOF

		rec := env.request(t, http.MethodPost, "/public-site/requests",
			`{"name":"Ana","email":"ana@example.com","style":"reggaeton"}`)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200 despite notifier failure, got %d", rec.Code)
		}
	})

	t.Run("storage failure is a storage_error", func(t *testing.T) {
		schema := repositories.NewSchema(nil)
		service := NewService(ServiceOpts{
			Submissions: repositories.NewSubmissionRepository(nil, schema),
			Catalog:     repositories.NewCatalogRepository(nil, schema),
			Logger:      shared.NewLogger(io.Discard),
		})

		req := httptest.NewRequest(http.MethodPost, "/public-site/requests",
			strings.NewReader(`{"name":"Ana","email":"ana@example.com","style":"reggaeton"}`))
		rec := httptest.NewRecorder()
		service.Handler().ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if decodeBody(t, rec)["error"] != "storage_error" {
			t.Error("expected storage_error")
		}
	})

	t.Run("rate limiting caps the write path", func(t *testing.T) {
		env := newTestEnv(t, ServiceOpts{RequestsPerSecond: 0.001})

		body := `{"name":"Ana","email":"ana@example.com","style":"reggaeton"}`
		first := env.request(t, http.MethodPost, "/public-site/requests", body)
		second := env.request(t, http.MethodPost, "/public-site/requests", body)

		if first.Code != http.StatusOK {
			t.Fatalf("expected first request to pass, got %d", first.Code)
		}
		if second.Code != http.StatusTooManyRequests {
			t.Fatalf("expected second request limited, got %d", second.Code)
		}
		if decodeBody(t, second)["error"] != "rate_limited" {
			t.Error("expected rate_limited")
		}

		// reads are never throttled
		if rec := env.request(t, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
			t.Errorf("expected health to bypass the limiter, got %d", rec.Code)
		}
	})
}

func TestCatalogRoute(t *testing.T) {
	t.Run("lists only published tracks", func(t *testing.T) {
		env := newTestEnv(t, ServiceOpts{})

		// a requested entry from a submission must not appear
		rec := env.request(t, http.MethodPost, "/public-site/requests",
			`{"name":"Ana","email":"ana@example.com","style":"reggaeton"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed to seed a submission: %d", rec.Code)
		}

		for range 2 {
			rec := env.request(t, http.MethodGet, "/public-site/catalog", "")
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}

			var payload struct {
				Tracks []models.CatalogEntry `json:"tracks"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}

			if len(payload.Tracks) != 6 {
				t.Fatalf("expected the 6 seeded tracks, got %d", len(payload.Tracks))
			}
			for _, track := range payload.Tracks {
				if track.Status != models.CatalogPublished {
					t.Errorf("expected only published tracks, got %s", track.Status)
				}
				if track.ISRC == "" || track.UPC == "" {
					t.Errorf("expected identifiers on published track %s", track.ID)
				}
			}
		}
	})

	t.Run("no store is an internal_error", func(t *testing.T) {
		schema := repositories.NewSchema(nil)
		service := NewService(ServiceOpts{
			Submissions: repositories.NewSubmissionRepository(nil, schema),
			Catalog:     repositories.NewCatalogRepository(nil, schema),
			Logger:      shared.NewLogger(io.Discard),
		})

		req := httptest.NewRequest(http.MethodGet, "/public-site/catalog", nil)
		rec := httptest.NewRecorder()
		service.Handler().ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if decodeBody(t, rec)["error"] != "internal_error" {
			t.Error("expected internal_error")
		}
	})
}
