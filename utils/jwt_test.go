package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_RoundTrip(t *testing.T) {
	token, err := GenerateJWT("test-secret", "64f1a2b3c4d5e6f7a8b9c0d1", "volunteer", 60)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, role, err := ParseJWT("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, "64f1a2b3c4d5e6f7a8b9c0d1", userID)
	assert.Equal(t, "volunteer", role)
}

func TestJWT_WrongSecretRejected(t *testing.T) {
	token, err := GenerateJWT("test-secret", "user-1", "admin", 60)
	require.NoError(t, err)

	_, _, err = ParseJWT("other-secret", token)
	assert.Error(t, err)
}

func TestJWT_EmptySecret(t *testing.T) {
	_, err := GenerateJWT("", "user-1", "admin", 60)
	assert.Error(t, err)
}

func TestJWT_GarbageToken(t *testing.T) {
	_, _, err := ParseJWT("test-secret", "not.a.token")
	assert.Error(t, err)
}
