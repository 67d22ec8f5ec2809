package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewSession(t *testing.T) {
	s := NewSession("user-1", "203.0.113.9", "test-agent", time.Now().Add(time.Hour))
	if s.ID == "" {
		t.Error("expected generated id")
	}
	if !s.IsActive {
		t.Error("new session should be active")
	}
	if !s.Live() {
		t.Error("new session should be live")
	}
}

func TestSession_TerminateMonotonic(t *testing.T) {
	s := NewSession("user-1", "", "", time.Now().Add(time.Hour))
	if err := s.Terminate(); err != nil {
		t.Fatalf("first Terminate: %v", err)
	}
	if s.Live() {
		t.Error("terminated session should not be live")
	}
	if err := s.Terminate(); !errors.Is(err, ErrAlreadyTerminated) {
		t.Errorf("second Terminate: got %v, want ErrAlreadyTerminated", err)
	}
}

func TestSession_ExpiryEndsLiveness(t *testing.T) {
	s := NewSession("user-1", "", "", time.Now().Add(-time.Minute))
	if s.Live() {
		t.Error("expired session should not be live even while active")
	}
	if !s.IsActive {
		t.Error("expiry must not flip the active flag itself")
	}
}

func TestSession_Touch(t *testing.T) {
	s := NewSession("user-1", "", "", time.Now().Add(time.Hour))
	before := s.LastActivityAt
	time.Sleep(5 * time.Millisecond)
	s.Touch()
	if !s.LastActivityAt.After(before) {
		t.Error("Touch should advance LastActivityAt")
	}
}
