// Package server provides HTTP routing, middleware, and request handlers for the qloudsound public API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// [BasicRouter] matches routes exactly on (method, path), tolerating one trailing slash,
// and answers anything unmatched with the JSON not_found envelope.
//
// # Middleware Stack
//
// [CORS] is the outermost layer so preflight responses and error responses carry the
// cross-origin headers; it short-circuits OPTIONS with a 204 before routing. Inside it,
// [Recover] converts panics into the generic internal_error response, [RequestLogger]
// emits one structured line per request, and [Throttle] guards the single write route
// with a token-bucket limiter.
//
// # Handlers
//
// [Service] bundles the handler dependencies (stores, notifier, logger, config) and exposes
// the composed entry point via [Service.Handler]. The one write path, POST /public-site/requests,
// validates the intake form (honeypot first, then required fields), persists the submission and
// its derived catalog entry, fires the advisory notification, and answers {ok, id}.
// Persistence and notification failures are kept strictly separate: the former abort with
// storage_error, the latter are logged and ignored.
package server
