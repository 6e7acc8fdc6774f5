package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateToken returns 128 random bits as hex, used as the token id (jti).
func GenerateToken() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
