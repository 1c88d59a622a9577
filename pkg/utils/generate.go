package utils

import (
	"github.com/google/uuid"
)

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

// GenerateAttemptToken returns the key of one booking submission.
func GenerateAttemptToken() string {
	return uuid.NewString()
}
