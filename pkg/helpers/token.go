package helpers

import (
	"crypto/rand"
	"encoding/base64"
)

// MinOpaqueTokenBytes is the smallest entropy accepted for verification and reset tokens.
const MinOpaqueTokenBytes = 32

// GenerateOpaqueToken returns a URL-safe random string built from n random bytes.
// n is raised to MinOpaqueTokenBytes when smaller.
func GenerateOpaqueToken(n int) (string, error) {
	if n < MinOpaqueTokenBytes {
		n = MinOpaqueTokenBytes
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
