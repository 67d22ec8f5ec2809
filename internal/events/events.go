// Package events publishes domain events for downstream consumers. Publishing
// is best-effort: callers log failures and carry on.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the auth service.
const (
	TypeUserRegistered    = "user.registered"
	TypeUserLoggedIn      = "user.logged_in"
	TypeEmailVerified     = "user.email_verified"
	TypeTokenReuse        = "token.reuse_detected"
	TypeSessionTerminated = "session.terminated"
)

// Event is one domain event on the wire. Fields not relevant to a given type
// are left empty.
type Event struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	UserID     string            `json:"user_id"`
	Email      string            `json:"email,omitempty"`
	IPAddress  string            `json:"ip_address,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Bus publishes events. Callers use it best-effort: log and ignore errors.
type Bus interface {
	Publish(ctx context.Context, e *Event) error
	Close() error
}

// New builds an event of the given type for a user.
func New(eventType, userID string) *Event {
	return &Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
}

// NewUserRegistered reports that a new account was created.
func NewUserRegistered(userID, email string) *Event {
	e := New(TypeUserRegistered, userID)
	e.Email = email
	return e
}

// NewUserLoggedIn reports a successful login.
func NewUserLoggedIn(userID, email, ipAddress string) *Event {
	e := New(TypeUserLoggedIn, userID)
	e.Email = email
	e.IPAddress = ipAddress
	return e
}

// NewEmailVerified reports that a user confirmed their email address.
func NewEmailVerified(userID, email string) *Event {
	e := New(TypeEmailVerified, userID)
	e.Email = email
	return e
}

// NewTokenReuse reports that a revoked refresh token was presented again.
func NewTokenReuse(userID string) *Event {
	return New(TypeTokenReuse, userID)
}
