package credential

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken_URLSafeAndUnique(t *testing.T) {
	urlSafe := regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok, err := Token()
		require.NoError(t, err)
		assert.Len(t, tok, 43) // 32 bytes, base64 raw URL encoding
		assert.True(t, urlSafe.MatchString(tok))
		assert.False(t, seen[tok], "duplicate token generated")
		seen[tok] = true
	}
}

func TestCode_FixedLengthDecimal(t *testing.T) {
	digits := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 100; i++ {
		code, err := Code()
		require.NoError(t, err)
		assert.True(t, digits.MatchString(code), "code %q is not 6 decimal digits", code)
	}
}

func TestHashToken_Deterministic(t *testing.T) {
	tok, err := Token()
	require.NoError(t, err)

	h1 := HashToken(tok)
	h2 := HashToken(tok)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64) // 256-bit digest, hex encoded
	assert.NotEqual(t, tok, h1)
}

func TestHashToken_DistinctInputs(t *testing.T) {
	a, err := Token()
	require.NoError(t, err)
	b, err := Token()
	require.NoError(t, err)
	assert.NotEqual(t, HashToken(a), HashToken(b))
}
