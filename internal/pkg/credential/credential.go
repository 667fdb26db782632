package credential

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"

	"golang.org/x/crypto/blake2b"
)

const (
	// tokenBytes gives 256 bits of entropy per link token.
	tokenBytes = 32
	// CodeLength is the fixed length of human-enterable codes. Codes only
	// need to resist guessing within a short validity window.
	CodeLength = 6
)

var codeSpace = big.NewInt(1_000_000)

// Token generates a cryptographically random, URL-safe link token.
// Callers must hash it before storage; the raw value is never persisted.
func Token() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Code generates a fixed-length decimal code for manual entry.
func Code() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeLength, n.Int64()), nil
}

// HashToken returns the hex-encoded BLAKE2b-256 digest of a raw token.
// Deterministic and unsalted: tokens are single-use 256-bit random values,
// so a fast digest is sufficient for at-rest protection.
func HashToken(raw string) string {
	sum := blake2b.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
