package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "userID", id), ANY package that knows the string
// "userID" can read or shadow your value. A package-private type means only
// this package can read or write userID values in the context.
type contextKey string

const userIDKey contextKey = "userID"

// TokenCookie is the name of the HttpOnly cookie that carries the JWT for
// browser clients. API clients use the Authorization header instead.
const TokenCookie = "token"

// RequireAuth is a middleware that enforces authentication on protected routes.
//
// It reads the bearer credential, validates it, and stores the userID in the
// request context. If the token is missing or invalid, it returns
// 401 Unauthorized and stops the request chain — handlers behind this
// middleware can assume an identity is present.
//
// TOKEN TRANSPORT:
// The primary transport is "Authorization: Bearer <jwt>". As a fallback we
// accept the HttpOnly "token" cookie set on login — that is what the GitHub
// sign-in redirect flow uses, where the client never sees the token string.
// HttpOnly means JavaScript cannot read the cookie, which keeps XSS from
// stealing it.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
				return
			}

			// Store userID in context so handlers can read it
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request context.
//
// Returns ("", false) if the request is anonymous (no valid token was present).
// Returns (id, true) if the user is authenticated.
//
// Usage in handlers:
//
//	userID, ok := auth.UserIDFromContext(r.Context())
//	if !ok {
//	    // anonymous request
//	}
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// extractUserID finds the JWT on the request and validates it.
// Authorization header first, "token" cookie second.
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		tokenStr, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenStr == "" {
			return "", errors.New("auth: malformed Authorization header")
		}
		return tokens.Validate(tokenStr)
	}

	cookie, err := r.Cookie(TokenCookie)
	if err != nil {
		// http.ErrNoCookie — no credential at all
		return "", err
	}
	return tokens.Validate(cookie.Value)
}
