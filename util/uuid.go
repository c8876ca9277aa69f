package util

import "github.com/google/uuid"

// PsuUUID returns a string pseudo-UUID suitable for session correlation
func PsuUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
