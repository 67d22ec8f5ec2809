package security

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParsePrivateKey_InlinePEM(t *testing.T) {
	signer, err := ParsePrivateKey(testPrivateKeyPEM)
	if err != nil {
		t.Fatalf("ParsePrivateKey: %v", err)
	}
	if signer == nil {
		t.Fatal("expected signer")
	}
}

func TestParsePublicKey_InlinePEM(t *testing.T) {
	pub, err := ParsePublicKey(testPublicKeyPEM)
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	if pub == nil {
		t.Fatal("expected public key")
	}
}

func TestLoadPEM_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "key.pem")
	if err := os.WriteFile(path, []byte(testPublicKeyPEM), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	pub, err := ParsePublicKey(path)
	if err != nil {
		t.Fatalf("ParsePublicKey from file: %v", err)
	}
	if pub == nil {
		t.Fatal("expected public key")
	}
}

func TestParseKeys_Invalid(t *testing.T) {
	if _, err := ParsePrivateKey(""); err == nil {
		t.Error("empty input should fail")
	}
	if _, err := ParsePrivateKey("not a pem"); err == nil {
		t.Error("non-PEM input that is not a path should fail")
	}
	if _, err := ParsePublicKey("-----BEGIN GARBAGE-----\nabc\n-----END GARBAGE-----"); err == nil {
		t.Error("unknown block type should fail")
	}
}
