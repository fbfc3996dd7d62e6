// Package middleware provides HTTP middleware functions used for
// identifying the caller from a JWT and for request logging and compression.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/atinyakov/chat-prompt-store/internal/app/service"
)

// ContextKey is a custom type used for keys in the context.
type ContextKey string

// ClaimsKey is the key used to store and retrieve the caller's claims from
// the context.
const ClaimsKey ContextKey = "claims"

// TokenCookie is the cookie the session endpoint sets.
const TokenCookie = "token"

// InjectClaims adds the caller identity to the request context.
func InjectClaims(req *http.Request, claims *service.Claims) *http.Request {
	ctx := context.WithValue(req.Context(), ClaimsKey, claims)
	return req.WithContext(ctx)
}

// ClaimsFrom returns the identity stored by WithJWT.
func ClaimsFrom(ctx context.Context) (*service.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*service.Claims)
	return claims, ok && claims != nil
}

// WithJWT rejects requests without a valid token. The token is taken from
// the Authorization bearer header, falling back to the token cookie.
func WithJWT(auth service.AuthIface) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				claims *service.Claims
				err    error
			)

			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				claims, err = auth.ParseRawJWT(strings.TrimPrefix(h, "Bearer "))
			} else if cookie, cErr := r.Cookie(TokenCookie); cErr == nil {
				claims, err = auth.ParseClaims(cookie)
			} else {
				err = cErr
			}

			if err != nil || claims == nil {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, InjectClaims(r, claims))
		})
	}
}
