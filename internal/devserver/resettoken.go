package devserver

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/librisys/library-client/internal/core/domain"
)

const resetTokenTTL = 15 * time.Minute

// issueResetToken signs a short-lived password-reset token for the account.
// The token is what a real deployment would mail to the user; the dev server
// logs it instead.
func issueResetToken(secret, userID string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":     userID,
		"purpose": "password-reset",
		"iat":     now.Unix(),
		"exp":     now.Add(resetTokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// verifyResetToken validates the token and returns the account id it was
// issued for.
func verifyResetToken(secret, token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidCredentials
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return "", domain.ErrInvalidCredentials
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || claims["purpose"] != "password-reset" {
		return "", domain.ErrInvalidCredentials
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", domain.ErrInvalidCredentials
	}
	return sub, nil
}
