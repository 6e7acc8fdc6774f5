package uid

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateSessionID returns a random (v4) session identifier
func GenerateSessionID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate session ID: %w", err)
	}
	return id.String(), nil
}
