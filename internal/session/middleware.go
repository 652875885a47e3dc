package session

import (
	"context"
	"net/http"
)

type ctxKey struct{}

// Middleware resolves the identity once per request and attaches it to the
// request context
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident := m.Resolve(r)
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
	})
}

// WithIdentity returns a copy of ctx carrying ident
func WithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, ident)
}

// FromContext returns the identity resolved by Middleware, or anonymous
func FromContext(ctx context.Context) Identity {
	ident, _ := ctx.Value(ctxKey{}).(Identity)
	return ident
}

// RequireIdentity redirects anonymous requests to the login page
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if FromContext(r.Context()).Anonymous() {
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
