package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomToken returns a hex token of 2n characters, used for attachment
// public IDs.
func RandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
