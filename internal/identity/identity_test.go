package identity

import (
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestResolvePrefersEmailClaim(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"email": "helper@example.com",
		"sub":   "user-123",
	})
	if got := Resolve(token, "configured-id"); got != "helper@example.com" {
		t.Errorf("Resolve = %q, want email claim", got)
	}
}

func TestResolveFallsBackToSubject(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "user-123"})
	if got := Resolve(token, "configured-id"); got != "user-123" {
		t.Errorf("Resolve = %q, want subject claim", got)
	}
}

func TestResolveMalformedTokenUsesHelperID(t *testing.T) {
	if got := Resolve("not-a-jwt", "configured-id"); got != "configured-id" {
		t.Errorf("Resolve = %q, want configured helper ID", got)
	}
}

func TestResolveNoTokenUsesHelperID(t *testing.T) {
	if got := Resolve("", "configured-id"); got != "configured-id" {
		t.Errorf("Resolve = %q, want configured helper ID", got)
	}
}

func TestResolveGeneratedFallback(t *testing.T) {
	got := Resolve("", "")
	if !strings.HasPrefix(got, "helper-") || len(got) != len("helper-")+8 {
		t.Errorf("Resolve = %q, want generated helper-xxxxxxxx", got)
	}
}

func TestResolveEmptyClaimsFallThrough(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{})
	if got := Resolve(token, "configured-id"); got != "configured-id" {
		t.Errorf("Resolve = %q, want configured helper ID", got)
	}
}
