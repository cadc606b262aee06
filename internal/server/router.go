package server

import (
	"net/http"
	"slices"
)

// BasicRouter implements [Router] on an [http.ServeMux] using method-qualified patterns.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
	routes      []string
}

// NewBasicRouter creates an empty [BasicRouter].
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux()}
}

// Use appends middleware; it only affects handlers registered afterwards.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers handler for "METHOD path", wrapped in the current middleware stack.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	pattern := method + " " + path
	r.routes = append(r.routes, pattern)
	r.mux.Handle(pattern, r.wrap(handler))
}

// Routes returns the registered patterns in registration order.
func (r *BasicRouter) Routes() []string {
	return slices.Clone(r.routes)
}

func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// wrap applies middleware so the first one added is outermost.
func (r *BasicRouter) wrap(handler http.Handler) http.Handler {
	for _, mw := range slices.Backward(r.middlewares) {
		handler = mw(handler)
	}
	return handler
}
