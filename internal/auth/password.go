// Package auth — password hashing utilities.
//
// WHY BCRYPT?
// bcrypt is a password hashing function designed to be slow. That slowness
// is a security feature: it makes brute-force attacks expensive. bcrypt
// also generates a random salt per hash and embeds it in the output, so two
// users with the same password get different hashes and no separate salt
// column is needed.
//
// NEVER store passwords in plain text or with fast hashes (MD5, SHA-256) —
// those fall to GPU-accelerated cracking in minutes.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor.
//
// COST TUNING RULE OF THUMB:
// Set cost so that hashing takes ~200–300ms on your production hardware.
// Too low → easy to crack. Too high → login is sluggish and the server
// spends all its time on bcrypt during traffic spikes. Cost 12 is the
// recommended minimum for new applications.
const defaultCost = 12

// PasswordService provides bcrypt hashing and verification.
//
// It's a struct (not free functions) so that the cost can be injected in
// tests — the minimum cost (4) makes tests fast without changing the logic
// under test.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost (12).
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest creates a PasswordService with a custom (low)
// cost. Use cost 4 in tests to avoid the ~250ms overhead per hash.
//
// Do NOT use in production — cost 4 is far too weak.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes the given plaintext password with bcrypt.
//
// The output is a self-contained string like:
//
//	$2a$12$N9qo8uLOickgx2ZMRZoMye...
//
// Store it directly — it includes the salt and cost, and
// bcrypt.CompareHashAndPassword knows how to decode it.
//
// Returns an error if the plaintext is longer than 72 bytes (a bcrypt
// limit; the library would otherwise silently truncate).
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks whether a plaintext password matches a stored bcrypt hash.
// Returns nil if they match, a non-nil error if they don't.
//
// bcrypt.CompareHashAndPassword compares in constant time, so response
// timing doesn't reveal how close a guess was.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
