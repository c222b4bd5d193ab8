package utils

import "github.com/google/uuid"

// NewUUID returns a time-ordered UUID (v7) string, falling back to a random
// v4 if the system clock misbehaves. Used for client-assigned entity ids.
func NewUUID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
