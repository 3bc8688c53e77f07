package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-passphrase")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-passphrase", hash)

	assert.True(t, CheckPassword("s3cret-passphrase", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestGenerateRandomToken(t *testing.T) {
	a, err := GenerateRandomToken(16)
	require.NoError(t, err)
	b, err := GenerateRandomToken(16)
	require.NoError(t, err)

	assert.Len(t, a, 32) // hex doubles the byte length
	assert.NotEqual(t, a, b)
}
