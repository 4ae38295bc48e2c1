package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/food-delivery-backend/internal/config"
)

func newTestJWTManager(accessExpiry time.Duration) *JWTManager {
	return NewJWTManager(&config.Config{
		JWT: config.JWTConfig{
			Secret:             "test-secret-key-that-is-long-enough-for-hmac",
			AccessTokenExpiry:  accessExpiry,
			RefreshTokenExpiry: 24 * time.Hour,
		},
	})
}

func TestAccessToken_RoundTrip(t *testing.T) {
	m := newTestJWTManager(time.Hour)

	token, err := m.GenerateAccessToken(42, "asha@example.com", true)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
}

func TestValidateAccessToken_RejectsRefreshToken(t *testing.T) {
	m := newTestJWTManager(time.Hour)

	refresh, err := m.GenerateRefreshToken(42, "asha@example.com")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err)
}

func TestValidateRefreshToken_RejectsAccessToken(t *testing.T) {
	m := newTestJWTManager(time.Hour)

	access, err := m.GenerateAccessToken(42, "asha@example.com", false)
	require.NoError(t, err)

	_, err = m.ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	m := newTestJWTManager(-time.Minute)

	token, err := m.GenerateAccessToken(42, "asha@example.com", false)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	m := newTestJWTManager(time.Hour)
	token, err := m.GenerateAccessToken(42, "asha@example.com", false)
	require.NoError(t, err)

	other := NewJWTManager(&config.Config{
		JWT: config.JWTConfig{Secret: "a-completely-different-secret-key-here"},
	})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", ExtractTokenFromHeader("Bearer abc.def.ghi"))
	assert.Equal(t, "", ExtractTokenFromHeader("abc.def.ghi"))
	assert.Equal(t, "", ExtractTokenFromHeader(""))
	assert.Equal(t, "", ExtractTokenFromHeader("Basic dXNlcjpwYXNz"))
}
