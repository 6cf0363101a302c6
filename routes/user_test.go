package routes

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v4"
)

// signedTokenWithKid builds a well-formed token carrying a kid header, the
// shape every real provider-issued ID token has.
func signedTokenWithKid(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "user@example.com"})
	token.Header["kid"] = "test-key"
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("could not sign token: %v", err)
	}
	return signed
}

func TestVerifyGoogleTokenBadJWKSIsUpstreamError(t *testing.T) {
	// A JWKS endpoint response that is not JSON must come back as an error,
	// not a panic, even when the token's kid would drive a key lookup
	_, err := verifyGoogleToken([]byte("not a key set"), signedTokenWithKid(t))
	if err == nil {
		t.Fatal("expected an error for an unparseable key set")
	}
	if errors.Is(err, errGoogleTokenInvalid) {
		t.Fatalf("a key-set failure must not be reported as a bad client token: %v", err)
	}
}

func TestVerifyGoogleTokenUnknownKeyIsInvalidToken(t *testing.T) {
	_, err := verifyGoogleToken([]byte(`{"keys":[]}`), signedTokenWithKid(t))
	if !errors.Is(err, errGoogleTokenInvalid) {
		t.Fatalf("expected the invalid-token error, got %v", err)
	}
}

func TestClaimStringMissingClaimIsEmpty(t *testing.T) {
	cases := []struct {
		name   string
		claims jwt.MapClaims
		want   string
	}{
		{"present", jwt.MapClaims{"email": "a@b.com"}, "a@b.com"},
		{"absent", jwt.MapClaims{}, ""},
		{"nil value", jwt.MapClaims{"email": nil}, ""},
		{"non-string", jwt.MapClaims{"email": 42}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := claimString(tc.claims, "email"); got != tc.want {
				t.Fatalf("claimString = %q, want %q", got, tc.want)
			}
		})
	}
}
