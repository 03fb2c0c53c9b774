// Package sessions mints the opaque tokens handed out at registration and
// login.
package sessions

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenBytes is the raw entropy per token. 32 bytes encodes to 43 URL-safe
// characters.
const tokenBytes = 32

// Issue returns a fresh opaque session token drawn from the system CSPRNG.
// Every call is independent; two tokens are never equal in practice.
func Issue() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes for session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
