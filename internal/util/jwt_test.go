package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, expiresAt, err := GenerateToken("user-1", "alice", "alice@test.com", "user", "secret", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := ValidateToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@test.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "user-1", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _, err := GenerateToken("user-1", "alice", "alice@test.com", "user", "secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "a different secret")
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	token, _, err := GenerateToken("user-1", "alice", "alice@test.com", "user", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "secret")
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken("definitely.not.ajwt", "secret")
	assert.Error(t, err)
}

func TestTokenIDsAreUnique(t *testing.T) {
	first, _, err := GenerateToken("user-1", "alice", "alice@test.com", "user", "secret", time.Hour)
	require.NoError(t, err)
	second, _, err := GenerateToken("user-1", "alice", "alice@test.com", "user", "secret", time.Hour)
	require.NoError(t, err)

	firstClaims, err := ValidateToken(first, "secret")
	require.NoError(t, err)
	secondClaims, err := ValidateToken(second, "secret")
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}
