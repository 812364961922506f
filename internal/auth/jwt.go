// Package auth provides JWT issuance/validation, bcrypt password hashing,
// the request-authentication middleware, and the optional GitHub sign-in
// provider.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. A user registers or logs in (password or GitHub) and receives a JWT
// 2. The client sends it back as "Authorization: Bearer <jwt>" (browsers
//    that logged in here also get it as an HttpOnly cookie)
// 3. On every protected route, middleware validates the JWT and puts the
//    userID in the request context — no session store, no DB lookup
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — everything needed (userID, expiry)
// is inside the signed token, and the HMAC signature ensures nobody can
// tamper with it without the secret key.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTTL is the access-token lifetime. One day matches how long a casual
// browsing session is expected to stay signed in; after expiry the client
// must log in again.
const tokenTTL = 24 * time.Hour

const issuer = "country-explorer"

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens. The same
// secret must be used for both operations — keep it safe and rotate it
// periodically in production.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. It embeds jwt.RegisteredClaims which includes
// standard fields like Issuer, Subject, ExpiresAt, IssuedAt.
//
// We use "sub" (Subject) to store the internal user ID — the standard JWT
// claim for identifying who the token belongs to.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a new JWT access token for the given userID.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, fast, and right for
// a single-server deployment where issuer and verifier share the secret.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, tokenTTL)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used in tests to mint short-lived or already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string.
// Returns the userID (stored in the "sub" claim) if the token is valid.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired
//   - Issuer matches ours (prevents tokens from other apps)
//   - Algorithm is HS256 (prevents algorithm confusion attacks — without
//     jwt.WithValidMethods an attacker could send an unsigned "none" token)
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		// Translate jwt library errors into cleaner messages
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	userID := c.Subject
	if userID == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return userID, nil
}
