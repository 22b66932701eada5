package server

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mikelobato/qloudsound-api/internal/shared"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS(t *testing.T) {
	t.Run("preflight with configured origin", func(t *testing.T) {
		handler := CORS([]string{"https://example.com"})(okHandler())

		req := httptest.NewRequest(http.MethodOptions, "/public-site/requests", nil)
		req.Header.Set("Origin", "https://example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://example.com" {
			t.Errorf("expected origin echoed, got %s", got)
		}
		if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
			t.Errorf("expected credentials true, got %s", got)
		}
		if got := rec.Header().Get("Vary"); got != "Origin" {
			t.Errorf("expected Vary Origin, got %s", got)
		}
	})

	t.Run("preflight with wildcard config", func(t *testing.T) {
		handler := CORS([]string{"*"})(okHandler())

		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "https://anywhere.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("expected wildcard, got %s", got)
		}
		if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "false" {
			t.Errorf("expected credentials false, got %s", got)
		}
	})

	t.Run("unlisted origin falls back to first configured", func(t *testing.T) {
		handler := CORS([]string{"https://a.example", "https://b.example"})(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://a.example" {
			t.Errorf("expected fallback to first origin, got %s", got)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("expected non-preflight request to reach the handler, got %d", rec.Code)
		}
	})

	t.Run("requested headers are echoed", func(t *testing.T) {
		handler := CORS([]string{"*"})(okHandler())

		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Access-Control-Request-Headers", "X-Custom, Content-Type")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "X-Custom, Content-Type" {
			t.Errorf("expected requested headers echoed, got %s", got)
		}
	})

	t.Run("default allowed headers", func(t *testing.T) {
		handler := CORS([]string{"*"})(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type" {
			t.Errorf("expected Content-Type default, got %s", got)
		}
		if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET,POST,OPTIONS" {
			t.Errorf("unexpected allowed methods %s", got)
		}
	})

	t.Run("resolveAllowOrigin", func(t *testing.T) {
		cases := []struct {
			name    string
			allowed []string
			origin  string
			want    string
		}{
			{"wildcard list", []string{"*"}, "https://x.example", "*"},
			{"no origin header", []string{"https://a.example"}, "", "https://a.example"},
			{"listed origin", []string{"https://a.example", "https://b.example"}, "https://b.example", "https://b.example"},
			{"unlisted origin", []string{"https://a.example"}, "https://x.example", "https://a.example"},
			{"empty config with origin", []string{}, "https://x.example", "null"},
			{"empty config without origin", []string{}, "", "*"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if got := resolveAllowOrigin(tc.allowed, tc.origin); got != tc.want {
					t.Errorf("expected %s, got %s", tc.want, got)
				}
			})
		}
	})
}

func TestRecover(t *testing.T) {
	logger := shared.NewLogger(io.Discard)
	handler := Recover(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	payload := decodeBody(t, rec)
	if payload["error"] != "internal_error" {
		t.Errorf("expected internal_error, got %v", payload["error"])
	}
}

func TestThrottle(t *testing.T) {
	t.Run("nil limiter disables throttling", func(t *testing.T) {
		handler := Throttle(nil)(okHandler())

		for range 10 {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("expected all requests to pass, got %d", rec.Code)
			}
		}
	})
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := shared.NewLogger(&buf)

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	out := buf.String()
	if out == "" {
		t.Fatal("expected a log line")
	}
	for _, want := range []string{"GET", "/health", "418"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log to contain %q, got %s", want, out)
		}
	}
}
