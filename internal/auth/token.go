// Package auth mints the short-lived request tokens expected by the Mealfit
// backend services.
package auth

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MintToken creates a short-lived HS256 token from an "id:secret" API key.
// The secret half is hex-encoded; the key id travels in the token header so
// the backend can pick the right secret for verification.
func MintToken(apiKey, audience string) (string, error) {
	parts := strings.SplitN(apiKey, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("api key must have the form id:secret")
	}

	secret, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("failed to decode api key secret: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(5 * time.Minute).Unix(),
		"aud": audience,
	})
	token.Header["kid"] = parts[0]

	return token.SignedString(secret)
}
