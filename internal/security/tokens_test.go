package security

import (
	"testing"
	"time"
)

func TestTokenProvider_AccessRoundTrip(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}

	token, expiresAt, err := p.GenerateAccessToken("user-1", "user@example.com", []string{"USER", "ADMIN"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Error("expiry should be in the future")
	}

	claims, err := p.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("subject = %q, want user-1", claims.Subject)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("email = %q, want user@example.com", claims.Email)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "USER" || claims.Roles[1] != "ADMIN" {
		t.Errorf("roles = %v, want [USER ADMIN]", claims.Roles)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Error("claims expiry should be in the future")
	}
}

func TestTokenProvider_RefreshRoundTrip(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}

	token, expiresAt, err := p.GenerateRefreshToken("user-2")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Error("expiry should be in the future")
	}

	userID, err := p.VerifyRefreshToken(token)
	if err != nil {
		t.Fatalf("VerifyRefreshToken: %v", err)
	}
	if userID != "user-2" {
		t.Errorf("userID = %q, want user-2", userID)
	}

	exp, err := p.RefreshTokenExpiration(token)
	if err != nil {
		t.Fatalf("RefreshTokenExpiration: %v", err)
	}
	if exp.Sub(expiresAt).Abs() > time.Second {
		t.Errorf("expiration query = %v, want ~%v", exp, expiresAt)
	}
}

func TestTokenProvider_RefreshTokensDiffer(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	a, _, err := p.GenerateRefreshToken("user-1")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	b, _, err := p.GenerateRefreshToken("user-1")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if a == b {
		t.Error("two refresh tokens for the same user should differ (jti)")
	}
}

func TestTokenProvider_RejectsGarbage(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	if _, err := p.VerifyAccessToken("not-a-jwt"); err != ErrInvalidToken {
		t.Errorf("VerifyAccessToken(garbage) = %v, want ErrInvalidToken", err)
	}
	if _, err := p.VerifyRefreshToken(""); err != ErrInvalidToken {
		t.Errorf("VerifyRefreshToken(empty) = %v, want ErrInvalidToken", err)
	}
}

func TestTokenProvider_RejectsWrongKind(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	access, _, err := p.GenerateAccessToken("user-1", "u@e.com", []string{"USER"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	other, err := NewTestTokenProviderFor("other-issuer", "other-aud")
	if err != nil {
		t.Fatalf("NewTestTokenProviderFor: %v", err)
	}
	if _, err := other.VerifyAccessToken(access); err != ErrInvalidToken {
		t.Errorf("cross-issuer access token should be rejected, got %v", err)
	}
}
