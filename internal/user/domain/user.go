// Package domain holds the user entity and its state transitions. All expected
// business-rule violations are returned as errors, never panics; messages are
// surfaced verbatim to API callers.
package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is a coarse authorization role carried in access token claims.
type Role string

const (
	RoleUser      Role = "USER"
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
)

var (
	ErrEmailEmpty           = errors.New("Email cannot be empty")
	ErrEmailInvalid         = errors.New("Invalid email format")
	ErrNoRoles              = errors.New("User must have at least one role")
	ErrLastRole             = errors.New("Cannot remove last role")
	ErrEmailAlreadyVerified = errors.New("Email already verified")
	ErrAlreadyActive        = errors.New("User is already active")
	ErrAlreadyInactive      = errors.New("User is already inactive")
	ErrSamePassword         = errors.New("New password must be different from old password")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail validates the address shape and lowercases it. Two addresses
// that differ only by case are the same identity.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrEmailEmpty
	}
	if !emailPattern.MatchString(email) {
		return "", ErrEmailInvalid
	}
	return strings.ToLower(email), nil
}

// User is the identity aggregate root. ID is immutable; email is stored
// normalized; PasswordHash is opaque to the domain. Users are never physically
// deleted, only deactivated.
type User struct {
	ID            string
	Email         string
	PasswordHash  string
	Roles         []Role
	IsActive      bool
	EmailVerified bool
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewUser creates a user with the given normalized email, password hash, and
// roles. New users are active and unverified. Returns ErrNoRoles when roles is
// empty.
func NewUser(email, passwordHash string, roles []Role) (*User, error) {
	if len(roles) == 0 {
		return nil, ErrNoRoles
	}
	now := time.Now().UTC()
	return &User{
		ID:            uuid.New().String(),
		Email:         email,
		PasswordHash:  passwordHash,
		Roles:         append([]Role(nil), roles...),
		IsActive:      true,
		EmailVerified: false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// VerifyEmail marks the email as verified. Fails if already verified so the
// transition is observed exactly once.
func (u *User) VerifyEmail() error {
	if u.EmailVerified {
		return ErrEmailAlreadyVerified
	}
	u.EmailVerified = true
	u.touch()
	return nil
}

// ChangePassword replaces the stored hash. Rejects a hash identical to the
// current one.
func (u *User) ChangePassword(newHash string) error {
	if u.PasswordHash == newHash {
		return ErrSamePassword
	}
	u.PasswordHash = newHash
	u.touch()
	return nil
}

// UpdateLastLogin records a successful login at now.
func (u *User) UpdateLastLogin() {
	now := time.Now().UTC()
	u.LastLoginAt = &now
	u.touch()
}

// Activate re-enables a deactivated account.
func (u *User) Activate() error {
	if u.IsActive {
		return ErrAlreadyActive
	}
	u.IsActive = true
	u.touch()
	return nil
}

// Deactivate soft-disables the account. The record is kept.
func (u *User) Deactivate() error {
	if !u.IsActive {
		return ErrAlreadyInactive
	}
	u.IsActive = false
	u.touch()
	return nil
}

// HasRole reports whether the user holds role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AddRole grants role. Fails if already held.
func (u *User) AddRole(role Role) error {
	if u.HasRole(role) {
		return fmt.Errorf("User already has role: %s", role)
	}
	u.Roles = append(u.Roles, role)
	u.touch()
	return nil
}

// RemoveRole revokes role. A user always keeps at least one role.
func (u *User) RemoveRole(role Role) error {
	if !u.HasRole(role) {
		return fmt.Errorf("User does not have role: %s", role)
	}
	if len(u.Roles) == 1 {
		return ErrLastRole
	}
	kept := u.Roles[:0]
	for _, r := range u.Roles {
		if r != role {
			kept = append(kept, r)
		}
	}
	u.Roles = kept
	u.touch()
	return nil
}

// RoleStrings returns the roles as plain strings for token claims.
func (u *User) RoleStrings() []string {
	out := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		out[i] = string(r)
	}
	return out
}

func (u *User) touch() {
	u.UpdatedAt = time.Now().UTC()
}
