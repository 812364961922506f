package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// newTestTokenService returns a TokenService with a fixed secret so the
// tests in this package can mint and cross-check tokens deterministically.
func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

// decodeClaims opens a token with the service's own secret so tests can
// look at the registered claims Generate embedded.
func decodeClaims(t *testing.T, ts *TokenService, tokenStr string) *claims {
	t.Helper()
	c := &claims{}
	if _, err := jwt.ParseWithClaims(tokenStr, c, func(*jwt.Token) (any, error) {
		return ts.secret, nil
	}); err != nil {
		t.Fatalf("decoding token claims: %v", err)
	}
	return c
}

// signClaims builds a token signed with the service's secret but with
// arbitrary claims — used to feed Validate tokens Generate would never
// produce (wrong issuer, no expiry, empty subject).
func signClaims(t *testing.T, ts *TokenService, c jwt.RegisteredClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{RegisteredClaims: c}).SignedString(ts.secret)
	if err != nil {
		t.Fatalf("signing claims: %v", err)
	}
	return signed
}

// =========================================================================
// CONSTRUCTION
// =========================================================================

func TestNewTokenService_ShortSecret(t *testing.T) {
	_, err := NewTokenService("short")
	if err == nil {
		t.Fatal("NewTokenService() should reject secrets shorter than 16 chars")
	}
}

func TestNewTokenService_ValidSecret(t *testing.T) {
	if _, err := NewTokenService("this-is-16-chars"); err != nil {
		t.Fatalf("NewTokenService() unexpected error for valid secret: %v", err)
	}
}

// =========================================================================
// GENERATE — the claims a fresh token carries
// =========================================================================

func TestGenerate_EmbedsSubjectAndIssuer(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	c := decodeClaims(t, ts, token)
	if c.Subject != "user-123" {
		t.Errorf("sub = %q, want %q", c.Subject, "user-123")
	}
	if c.Issuer != issuer {
		t.Errorf("iss = %q, want %q", c.Issuer, issuer)
	}
}

func TestGenerate_DefaultExpiryIsOneDay(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	c := decodeClaims(t, ts, token)
	if c.IssuedAt == nil || c.ExpiresAt == nil {
		t.Fatalf("iat/exp missing: %+v", c.RegisteredClaims)
	}
	// iat and exp come from the same clock reading, so the gap is exact
	if got := c.ExpiresAt.Sub(c.IssuedAt.Time); got != tokenTTL {
		t.Errorf("exp - iat = %v, want %v", got, tokenTTL)
	}
}

// =========================================================================
// VALIDATE — round trip and every rejection path
// =========================================================================

func TestValidate_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("user-abc-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	got, err := ts.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got != "user-abc-123" {
		t.Errorf("Validate() userID = %q, want %q", got, "user-abc-123")
	}
}

func TestValidate_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.GenerateWithDuration("user-123", -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateWithDuration() error = %v", err)
	}

	if _, err := ts.Validate(token); err == nil {
		t.Fatal("Validate() should reject a token that expired a second ago")
	}
}

func TestValidate_RejectsForeignIssuer(t *testing.T) {
	ts := newTestTokenService(t)

	// Correctly signed, but minted by some other application sharing the
	// secret — the issuer check must stop it.
	now := time.Now()
	token := signClaims(t, ts, jwt.RegisteredClaims{
		Subject:   "user-123",
		Issuer:    "some-other-app",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})

	if _, err := ts.Validate(token); err == nil {
		t.Fatal("Validate() should reject a token from a different issuer")
	}
}

func TestValidate_RejectsMissingExpiry(t *testing.T) {
	ts := newTestTokenService(t)

	// No exp claim at all — a token that never expires must not validate.
	token := signClaims(t, ts, jwt.RegisteredClaims{
		Subject:  "user-123",
		Issuer:   issuer,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	})

	if _, err := ts.Validate(token); err == nil {
		t.Fatal("Validate() should reject a token without an expiry claim")
	}
}

func TestValidate_RejectsEmptySubject(t *testing.T) {
	ts := newTestTokenService(t)

	now := time.Now()
	token := signClaims(t, ts, jwt.RegisteredClaims{
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})

	if _, err := ts.Validate(token); err == nil {
		t.Fatal("Validate() should reject a token with no subject to identify")
	}
}

func TestValidate_RejectsUnsignedToken(t *testing.T) {
	ts := newTestTokenService(t)

	// alg=none — the classic algorithm-confusion attack. WithValidMethods
	// pins HS256, so this must fail before any claim is looked at.
	now := time.Now()
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("building alg=none token: %v", err)
	}

	if _, err := ts.Validate(unsigned); err == nil {
		t.Fatal("Validate() should reject an unsigned (alg=none) token")
	}
}

func TestValidate_TamperedSignature(t *testing.T) {
	ts := newTestTokenService(t)

	token, _ := ts.Generate("user-123")
	tampered := token[:len(token)-3] + "xxx"

	if _, err := ts.Validate(tampered); err == nil {
		t.Fatal("Validate() should reject a token with a mangled signature")
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	ts1, _ := NewTokenService("correct-secret-32-chars-long!!!!")
	ts2, _ := NewTokenService("wrong-secret-32-chars-long!!!!!!")

	token, _ := ts1.Generate("user-123")

	if _, err := ts2.Validate(token); err == nil {
		t.Fatal("Validate() should fail when verifying with a different secret")
	}
}

func TestValidate_GarbageInput(t *testing.T) {
	ts := newTestTokenService(t)

	for _, input := range []string{"", "not.a.jwt.token", "xxxxx"} {
		if _, err := ts.Validate(input); err == nil {
			t.Errorf("Validate(%q) should return an error", input)
		}
	}
}
