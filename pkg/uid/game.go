package uid

import "github.com/google/uuid"

// GenerateGameID names one game inside a session; a new one is made per restart.
func GenerateGameID() string {
	return uuid.NewString()
}
