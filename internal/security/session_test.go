package security

import (
	"errors"
	"testing"
	"time"
)

func TestSessionMintAndVerify(t *testing.T) {
	signer := NewSessionSigner("test-secret", time.Hour)

	token, expiresAt, err := signer.Mint("alice")
	if err != nil {
		t.Fatalf("Mint() error = %v", err)
	}
	if token == "" {
		t.Fatal("Mint() returned empty token")
	}
	if time.Until(expiresAt) > time.Hour || time.Until(expiresAt) < 59*time.Minute {
		t.Errorf("Mint() expiry = %v, want roughly an hour out", expiresAt)
	}

	username, err := signer.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if username != "alice" {
		t.Errorf("Verify() username = %q, want %q", username, "alice")
	}
}

func TestSessionVerifyRejectsGarbage(t *testing.T) {
	signer := NewSessionSigner("test-secret", time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "not a JWT", token: "not-a-token"},
		{name: "truncated JWT", token: "eyJhbGciOiJIUzI1NiJ9.broken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := signer.Verify(tt.token); !errors.Is(err, ErrInvalidSession) {
				t.Errorf("Verify(%q) error = %v, want ErrInvalidSession", tt.token, err)
			}
		})
	}
}

func TestSessionVerifyRejectsWrongSecret(t *testing.T) {
	signer := NewSessionSigner("secret-one", time.Hour)
	other := NewSessionSigner("secret-two", time.Hour)

	token, _, err := signer.Mint("alice")
	if err != nil {
		t.Fatalf("Mint() error = %v", err)
	}

	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("Verify() with wrong secret error = %v, want ErrInvalidSession", err)
	}
}

func TestSessionVerifyRejectsExpired(t *testing.T) {
	signer := NewSessionSigner("test-secret", -time.Minute)

	token, _, err := signer.Mint("alice")
	if err != nil {
		t.Fatalf("Mint() error = %v", err)
	}

	if _, err := signer.Verify(token); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Verify() of expired token error = %v, want ErrSessionExpired", err)
	}
}
