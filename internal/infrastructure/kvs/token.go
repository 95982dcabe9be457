// Package kvs provides the TTL-bounded token store backing authentication.
package kvs

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"lendhub/internal/domain/auth"
)

// tokenKeyPrefix namespaces token entries in the shared key/value store.
const tokenKeyPrefix = "token:"

// newToken generates a fresh opaque bearer token: 32 random bytes, hex
// encoded. The token carries no structure; the store is the only mapping to
// a user.
func newToken() (auth.AccessToken, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return auth.AccessToken(hex.EncodeToString(buf)), nil
}

func tokenKey(token auth.AccessToken) string {
	return tokenKeyPrefix + string(token)
}
