package server

import (
	"net/http"
	"slices"
)

// BasicRouter mounts [Handler]s on an [http.ServeMux] behind a shared middleware chain.
type BasicRouter struct {
	mux   *http.ServeMux
	chain []Middleware
}

func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux()}
}

// Use appends middleware; the first one added is the outermost.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.chain = append(r.chain, middleware...)
}

// Handler mounts handler on each of its routes behind the middleware added so far.
func (r *BasicRouter) Handler(handler Handler) {
	wrapped := Chain(handler, r.chain...)
	for _, route := range handler.Routes() {
		r.mux.Handle(route, wrapped)
	}
}

func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Chain wraps h so that middleware[0] sees the request first.
func Chain(h http.Handler, middleware ...Middleware) http.Handler {
	for _, m := range slices.Backward(middleware) {
		h = m(h)
	}
	return h
}
