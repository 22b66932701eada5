package server

import (
	"net/http"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// The service composes CORS, panic recovery, request logging and rate limiting this way.
type Middleware func(http.Handler) http.Handler

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware wrapped around the whole router, 404s included
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler() http.Handler                            // Handler returns the middleware-wrapped entry point
}

// Chain applies middleware around handler in reverse order (last added wraps first).
func Chain(handler http.Handler, middleware ...Middleware) http.Handler {
	wrapped := handler
	for i := len(middleware) - 1; i >= 0; i-- {
		wrapped = middleware[i](wrapped)
	}
	return wrapped
}
