// Package token mints the opaque credential strings bound to approved
// requests.
package token

import (
	"crypto/rand"
	"encoding/hex"
)

// 20 random bytes, hex encoded: a 160-bit keyspace.
const tokenBytes = 20

// Generator mints unique, unguessable pass tokens
type Generator interface {
	Token() (string, error)
}

// CryptoGenerator mints tokens from crypto/rand
type CryptoGenerator struct{}

// NewCryptoGenerator creates a new crypto/rand backed generator
func NewCryptoGenerator() *CryptoGenerator {
	return &CryptoGenerator{}
}

// Token returns a random 40-character hex token
func (g *CryptoGenerator) Token() (string, error) {
	bytes := make([]byte, tokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
