package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("bursar-pass-2026")
	require.NoError(t, err)
	assert.NotEqual(t, "bursar-pass-2026", hash)

	assert.True(t, CheckPasswordHash("bursar-pass-2026", hash))
	assert.False(t, CheckPasswordHash("wrong-password", hash))
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("user-1", "bursar@jacaranda.ac.ke", "Grace", "Wanjiku", []string{"bursar"})
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "bursar@jacaranda.ac.ke", claims.Email)
	assert.Equal(t, []string{"bursar"}, claims.Roles)
}

func TestValidateJWT_RejectsGarbage(t *testing.T) {
	_, err := ValidateJWT("not-a-token")
	assert.Error(t, err)
}

func TestNewSession(t *testing.T) {
	session := newSession("user-1")

	_, err := uuid.Parse(session.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
	assert.WithinDuration(t, time.Now().Add(sessionTTL), session.ExpiresAt, time.Minute)
}
