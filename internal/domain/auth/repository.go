package auth

import (
	"context"

	"lendhub/internal/core/id"
)

// Repository is the TTL-bounded token store. Entries expire on their own;
// there is no revoked state beyond deletion or expiry.
type Repository interface {
	// CreateToken generates a fresh opaque token and stores the
	// token -> user mapping with the configured TTL.
	CreateToken(ctx context.Context, userID id.ID) (AccessToken, error)

	// DeleteToken removes the mapping. Deleting an absent token is not an
	// error.
	DeleteToken(ctx context.Context, token AccessToken) error

	// FetchUserIDFromToken returns the mapped user id if the token is
	// present and unexpired.
	FetchUserIDFromToken(ctx context.Context, token AccessToken) (id.ID, bool, error)
}
