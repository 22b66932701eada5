package server

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// CORS computes cross-origin headers from the configured origin list and
// the request's Origin header, and short-circuits OPTIONS preflights with
// a 204 before routing.
//
// Resolution order: a wildcard entry (or a request without Origin) yields
// the first configured origin; an origin on the list is echoed back;
// anything else falls back to the first configured origin, or "null" when
// none is configured. Credentials are only allowed for non-wildcard
// responses.
func CORS(allowedOrigins []string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allow := resolveAllowOrigin(allowedOrigins, r.Header.Get("Origin"))

			headers := w.Header()
			headers.Set("Access-Control-Allow-Origin", allow)
			headers.Set("Vary", "Origin")

			requested := r.Header.Get("Access-Control-Request-Headers")
			if requested == "" {
				requested = "Content-Type"
			}
			headers.Set("Access-Control-Allow-Headers", requested)
			headers.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")

			if allow == "*" {
				headers.Set("Access-Control-Allow-Credentials", "false")
			} else {
				headers.Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func resolveAllowOrigin(allowed []string, origin string) string {
	if slices.Contains(allowed, "*") || origin == "" {
		if len(allowed) > 0 {
			return allowed[0]
		}
		return "*"
	}

	if slices.Contains(allowed, origin) {
		return origin
	}

	if len(allowed) > 0 {
		return allowed[0]
	}
	return "null"
}

// Recover is the top-level guard: any panic below it becomes a generic
// 500 internal_error instead of a crashed connection.
func Recover(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("handler panicked", "method", r.Method, "path", r.URL.Path, "panic", rec)
					writeError(w, "internal_error", fmt.Sprintf("%v", rec), http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs one line per request with method, path, status and duration.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.status,
				"duration", time.Since(start),
			)
		})
	}
}

// Throttle rejects requests beyond the limiter's budget with a 429.
// A nil limiter disables throttling.
func Throttle(limiter *rate.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, "rate_limited", "too many requests, slow down", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
