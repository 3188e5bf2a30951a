package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidPassword(t *testing.T) {
	cases := map[string]bool{
		"abc12345":   true,
		"Admin123!":  true,
		"p@ss#w0rd&": true,
		"abcdefgh":   false,
		"12345678":   false,
		"ab12":       false,
		"abc 12345":  false,
		"abc12345^":  false,
		"пароль1234": false,
		"":           false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsValidPassword(in), in)
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	h1, err := HashPassword("secret123")
	require.NoError(t, err)
	h2, err := HashPassword("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, "secret123", h1)
	assert.NotEqual(t, h1, h2, "salt differs per hash")
	assert.True(t, CheckPassword(h1, "secret123"))
	assert.True(t, CheckPassword(h2, "secret123"))
	assert.False(t, CheckPassword(h1, "secret124"))
	assert.False(t, CheckPassword("not-a-hash", "secret123"))
}
