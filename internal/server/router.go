package server

import (
	"fmt"
	"net/http"
	"strings"
)

// BasicRouter is a simple HTTP router implementing the [Router] interface.
//
// Routes are exact matches on (method, cleaned path); a trailing slash is
// tolerated on every route. Anything unmatched, unknown path or wrong
// method alike, gets the JSON not_found response rather than a 405.
type BasicRouter struct {
	routes      map[string]map[string]http.Handler
	middlewares []Middleware
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		routes:      map[string]map[string]http.Handler{},
		middlewares: []Middleware{},
	}
}

// Use adds [Middleware] around the whole router, applied in the order it's added.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers a handler for the specified HTTP method and path.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	path = cleanPath(path)
	if r.routes[path] == nil {
		r.routes[path] = map[string]http.Handler{}
	}
	r.routes[path][strings.ToUpper(method)] = handler
}

// Handler returns the router wrapped with all registered middleware.
func (r *BasicRouter) Handler() http.Handler {
	return Chain(http.HandlerFunc(r.dispatch), r.middlewares...)
}

// dispatch resolves the (method, path) pair or falls through to the JSON 404.
func (r *BasicRouter) dispatch(w http.ResponseWriter, req *http.Request) {
	if methods, ok := r.routes[cleanPath(req.URL.Path)]; ok {
		if handler, ok := methods[strings.ToUpper(req.Method)]; ok {
			handler.ServeHTTP(w, req)
			return
		}
	}

	writeError(w, "not_found", fmt.Sprintf("Route %s %s is not implemented", req.Method, req.URL.Path), http.StatusNotFound)
}

// cleanPath strips one trailing slash so /health/ and /health match the
// same route. The root path stays "/".
func cleanPath(path string) string {
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	if path == "" {
		path = "/"
	}
	return path
}
