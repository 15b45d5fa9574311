package lease

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenBytes is the amount of raw entropy packed into a lease token. 20
// bytes (160 bits) comfortably clears the spec's 128-bit floor and, unlike
// a UUID, carries no version/variant structure a caller could infer
// anything from.
const tokenBytes = 20

// NewToken mints a fresh, opaque, URL-safe lease token.
//
// Tokens are random byte strings with no internal structure. Callers must
// treat them as capabilities: possession of the exact token, compared for
// byte equality against the one stored alongside a lease, is what
// authorizes finishing or appending logs to the corresponding job.
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("lease: generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
