package user

import (
	"os"
	"os/user"

	"github.com/tablero-dev/tablero/internal/types"
)

// CurrentActor returns the identity recorded as last writer on commits.
// It tries multiple methods with fallbacks:
// 1. user.Current() - most reliable, gets username from OS
// 2. USER environment variable - fallback for restricted environments
// 3. "unknown" - final fallback to ensure a non-empty value
func CurrentActor() types.ActorID {
	currentUser, err := user.Current()
	if err != nil {
		// Fallback to USER environment variable
		username := os.Getenv("USER")
		if username == "" {
			// Final fallback
			return "unknown"
		}
		return types.ActorID(username)
	}
	return types.ActorID(currentUser.Username)
}
