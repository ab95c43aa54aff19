package jwt

import (
	"Receipt-Radar-Backend/domain"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T) {
	t.Helper()
	err := os.WriteFile("config.yaml", []byte("JWT_SECRET: test-secret\n"), 0600)
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove("config.yaml") })
}

func TestTokenRoundTrip(t *testing.T) {
	writeTestConfig(t)
	service := NewJWTService()

	token := service.GenerateTokenUser("user-1", "user@example.com")
	require.NotEmpty(t, token)

	userID, email, err := service.GetUserDetailByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "user@example.com", email)
}

func TestTokenWithoutEmail(t *testing.T) {
	writeTestConfig(t)
	service := NewJWTService()

	token := service.GenerateTokenUser("user-2", "")

	userID, email, err := service.GetUserDetailByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-2", userID)
	assert.Empty(t, email)
}

func TestInvalidToken(t *testing.T) {
	writeTestConfig(t)
	service := NewJWTService()

	_, _, err := service.GetUserDetailByToken("not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
