// Package verification issues and redeems short-lived email verification
// tokens. Tokens are opaque random strings stored server-side with a TTL;
// redemption is single-use.
package verification

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
)

// ErrTokenNotFound is returned by Consume when the token is unknown, already
// used, or expired. Callers cannot distinguish the three.
var ErrTokenNotFound = errors.New("verification token not found")

// Store holds pending verification tokens.
type Store interface {
	// Issue creates a fresh token bound to userID. The token expires after
	// the store's configured TTL.
	Issue(ctx context.Context, userID string) (string, error)
	// Consume redeems the token exactly once and returns the bound userID.
	Consume(ctx context.Context, token string) (string, error)
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
