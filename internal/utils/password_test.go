package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("password123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, VerifyPassword(hash, "password123"))
	assert.False(t, VerifyPassword(hash, "password124"))
	assert.False(t, VerifyPassword("not-a-hash", "password123"))
}
