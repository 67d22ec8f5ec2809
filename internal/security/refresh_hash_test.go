package security

import "testing"

func TestHashRefreshToken_Deterministic(t *testing.T) {
	a := HashRefreshToken("some-refresh-token")
	b := HashRefreshToken("some-refresh-token")
	if a != b {
		t.Error("same token should hash to the same value")
	}
	if a == "some-refresh-token" {
		t.Error("hash should differ from the raw token")
	}
	if len(a) != 64 {
		t.Errorf("hex-encoded SHA-256 should be 64 chars, got %d", len(a))
	}
}

func TestHashRefreshToken_DistinctInputs(t *testing.T) {
	if HashRefreshToken("token-a") == HashRefreshToken("token-b") {
		t.Error("distinct tokens should not collide")
	}
}

func TestRefreshTokenHashEqual(t *testing.T) {
	stored := HashRefreshToken("the-token")
	if !RefreshTokenHashEqual("the-token", stored) {
		t.Error("matching token should compare equal")
	}
	if RefreshTokenHashEqual("other-token", stored) {
		t.Error("non-matching token should not compare equal")
	}
	if RefreshTokenHashEqual("the-token", "") {
		t.Error("empty stored hash should not compare equal")
	}
}
