package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	// Same input hashes differently each time (random salt)
	other, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "password123"))
	assert.False(t, VerifyPassword(hash, "wrong-password"))
	assert.False(t, VerifyPassword("not-a-hash", "password123"))
}
