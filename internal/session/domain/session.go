// Package domain holds the session record that tracks where a user is
// signed in.
package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrAlreadyTerminated = errors.New("Session is already terminated")

// Session represents one signed-in client for a user. IsActive is monotonic:
// a terminated session never becomes active again.
type Session struct {
	ID             string
	UserID         string
	IPAddress      string
	UserAgent      string
	IsActive       bool
	ExpiresAt      time.Time
	LastActivityAt time.Time
	CreatedAt      time.Time
}

// NewSession creates an active session for the user. ipAddress and userAgent
// may be empty when the transport did not supply them.
func NewSession(userID, ipAddress, userAgent string, expiresAt time.Time) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:             uuid.New().String(),
		UserID:         userID,
		IPAddress:      ipAddress,
		UserAgent:      userAgent,
		IsActive:       true,
		ExpiresAt:      expiresAt,
		LastActivityAt: now,
		CreatedAt:      now,
	}
}

// Terminate deactivates the session. Terminating twice is an error.
func (s *Session) Terminate() error {
	if !s.IsActive {
		return ErrAlreadyTerminated
	}
	s.IsActive = false
	return nil
}

// Touch records activity on the session.
func (s *Session) Touch() {
	s.LastActivityAt = time.Now().UTC()
}

// Live reports whether the session is active and not past its expiry.
func (s *Session) Live() bool {
	return s.IsActive && s.ExpiresAt.After(time.Now())
}
