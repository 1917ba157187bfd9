package middleware

import (
	"net/http"
	"slices"
)

// Middleware wraps a handler.
type Middleware func(http.Handler) http.Handler

// Chain wraps h so the middleware run in the order given:
//
//	Chain(mux, Config(cfg), RequestLogging, AdminMiddleware(auth))
//
// runs Config first and AdminMiddleware last, right before mux.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for _, m := range slices.Backward(middlewares) {
		h = m(h)
	}
	return h
}
