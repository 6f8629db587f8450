package identity

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Resolve derives the helper's stable answeredBy identity.
//
// Precedence: the email (or subject) claim of the auth provider's access
// token, then the configured helper ID, then a generated fallback. The token
// is only read, never verified — the external auth provider owns its
// lifecycle and validity.
func Resolve(token, helperID string) string {
	if token != "" {
		if id, err := fromToken(token); err == nil && id != "" {
			return id
		}
	}
	if helperID != "" {
		return helperID
	}
	return fmt.Sprintf("helper-%s", uuid.New().String()[:8])
}

func fromToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return "", err
	}

	if email, ok := claims["email"].(string); ok && email != "" {
		return email, nil
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return "", err
	}
	return sub, nil
}
