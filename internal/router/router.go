// Package router wraps http.ServeMux with method helpers, path prefixes
// and middleware chains.
package router

import (
	"net/http"
	"slices"
	"strings"
)

// Router registers routes on a shared http.ServeMux. Groups created from a
// Router share its mux and extend its middleware chain and prefix.
type Router struct {
	mux    *http.ServeMux
	chain  []Middleware
	prefix string
}

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// New creates a Router with global middleware, applied to every route in
// the order given.
func New(middleware ...Middleware) *Router {
	return &Router{
		mux:   http.NewServeMux(),
		chain: middleware,
	}
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Get registers a GET route
func (r *Router) Get(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodGet, pattern, handler, middleware...)
}

// Post registers a POST route
func (r *Router) Post(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodPost, pattern, handler, middleware...)
}

// Put registers a PUT route
func (r *Router) Put(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodPut, pattern, handler, middleware...)
}

// Delete registers a DELETE route
func (r *Router) Delete(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodDelete, pattern, handler, middleware...)
}

// Handle registers handler for method and the prefixed pattern. An empty
// method matches any method.
func (r *Router) Handle(method, pattern string, handler http.Handler, middleware ...Middleware) {
	full := r.prefix + pattern
	if method != "" {
		full = method + " " + full
	}
	r.mux.Handle(full, r.wrap(handler, middleware))
}

// wrap applies the chain so middleware runs in the order it was given.
func (r *Router) wrap(handler http.Handler, middleware []Middleware) http.Handler {
	combined := append(slices.Clone(r.chain), middleware...)
	slices.Reverse(combined)

	result := handler
	for _, m := range combined {
		result = m(result)
	}
	return result
}

// Group creates a sub-router with additional middleware.
func (r *Router) Group(middleware ...Middleware) *Router {
	return &Router{
		mux:    r.mux,
		chain:  append(slices.Clone(r.chain), middleware...),
		prefix: r.prefix,
	}
}

// Route creates a group whose patterns are prefixed and passes it to fn.
//
//	r.Route("/api/invoices", func(r *router.Router) {
//		r.Get("/{id}", h.Get)
//	})
func (r *Router) Route(prefix string, fn func(r *Router), middleware ...Middleware) {
	g := r.Group(middleware...)
	g.prefix = r.prefix + strings.TrimSuffix(prefix, "/")
	fn(g)
}

// NotFound serves handler for every request no other pattern matches.
func (r *Router) NotFound(handler http.HandlerFunc) {
	r.mux.Handle("/", r.wrap(handler, nil))
}
