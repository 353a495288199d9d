package token

import (
	"encoding/hex"
	"testing"
)

func TestCryptoGeneratorToken(t *testing.T) {
	gen := NewCryptoGenerator()

	token, err := gen.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	if len(token) != 40 {
		t.Errorf("Token() length = %d, want 40", len(token))
	}

	if _, err := hex.DecodeString(token); err != nil {
		t.Errorf("Token() = %q is not valid hex: %v", token, err)
	}
}

func TestCryptoGeneratorUniqueness(t *testing.T) {
	gen := NewCryptoGenerator()
	seen := make(map[string]bool)

	for i := 0; i < 1000; i++ {
		token, err := gen.Token()
		if err != nil {
			t.Fatalf("Token() error = %v", err)
		}
		if seen[token] {
			t.Fatalf("Token() produced duplicate %q after %d tokens", token, i)
		}
		seen[token] = true
	}
}
