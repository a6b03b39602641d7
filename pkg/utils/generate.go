package utils

import (
	"github.com/google/uuid"
)

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

// GenerateUploadID names one upload attempt; its objects live under it.
func GenerateUploadID() string {
	return uuid.NewString()
}
