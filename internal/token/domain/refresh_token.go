// Package domain holds the persisted refresh-token record used for rotation
// and revocation. The raw token string is never stored; records carry a
// SHA-256 hash only.
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTokenEmpty     = errors.New("Token cannot be empty")
	ErrTokenTooShort  = errors.New("Token must be at least 10 characters long")
	ErrExpiryNotInFut = errors.New("Refresh token expiry must be in the future")
	ErrAlreadyRevoked = errors.New("Refresh token is already revoked")
)

// ValidateTokenShape rejects empty/whitespace-only values and strings shorter
// than 10 characters. A cheap syntactic gate applied before any cryptographic
// verification.
func ValidateTokenShape(token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrTokenEmpty
	}
	if len(token) < 10 {
		return ErrTokenTooShort
	}
	return nil
}

// RefreshToken is one issued refresh credential. Revoked is monotonic: once
// true it never goes back.
type RefreshToken struct {
	ID        string
	UserID    string
	SessionID string
	TokenHash string
	Revoked   bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewRefreshToken creates an unrevoked record for the given user and token
// hash. sessionID ties the credential to the session it was issued under and
// may be empty. expiresAt must be in the future.
func NewRefreshToken(userID, sessionID, tokenHash string, expiresAt time.Time) (*RefreshToken, error) {
	if !expiresAt.After(time.Now()) {
		return nil, ErrExpiryNotInFut
	}
	return &RefreshToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		SessionID: sessionID,
		TokenHash: tokenHash,
		Revoked:   false,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Revoke marks the token unusable. Revoking twice is an error; the flag never
// resets.
func (t *RefreshToken) Revoke() error {
	if t.Revoked {
		return ErrAlreadyRevoked
	}
	t.Revoked = true
	return nil
}

// IsExpired reports whether the token's expiry has passed.
func (t *RefreshToken) IsExpired() bool {
	return t.ExpiresAt.Before(time.Now())
}

// Valid reports whether the token may still be exchanged: not revoked and not
// expired.
func (t *RefreshToken) Valid() bool {
	return !t.Revoked && !t.IsExpired()
}
