package auth_test

import (
	"testing"
	"time"

	"accounts_backend/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *auth.TokenManager {
	return auth.NewTokenManager("unit-test-secret", 15*time.Minute, 24*time.Hour)
}

func TestTokenManager_AccessTokenRoundTrip(t *testing.T) {
	manager := newTestManager()

	token, err := manager.GenerateAccessToken("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ParseToken(token)
	require.NoError(t, err)

	assert.Equal(t, auth.TokenTypeAccess, claims.TokenType)
	assert.Equal(t, "user-123", claims.Subject)
	assert.NotEmpty(t, claims.ID, "jti нужен блэклисту")
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestTokenManager_RefreshTokenRoundTrip(t *testing.T) {
	manager := newTestManager()

	token, err := manager.GenerateRefreshToken("user-123")
	require.NoError(t, err)

	claims, err := manager.ParseToken(token)
	require.NoError(t, err)

	assert.Equal(t, auth.TokenTypeRefresh, claims.TokenType)
	assert.Equal(t, "user-123", claims.Subject)
}

func TestTokenManager_UniqueJTIPerToken(t *testing.T) {
	manager := newTestManager()

	first, err := manager.GenerateRefreshToken("user-123")
	require.NoError(t, err)
	second, err := manager.GenerateRefreshToken("user-123")
	require.NoError(t, err)

	firstClaims, err := manager.ParseToken(first)
	require.NoError(t, err)
	secondClaims, err := manager.ParseToken(second)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	manager := auth.NewTokenManager("unit-test-secret", -time.Minute, -time.Minute)

	token, err := manager.GenerateAccessToken("user-123")
	require.NoError(t, err)

	_, err = manager.ParseToken(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	token, err := newTestManager().GenerateAccessToken("user-123")
	require.NoError(t, err)

	other := auth.NewTokenManager("another-secret", 15*time.Minute, 24*time.Hour)
	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	_, err := newTestManager().ParseToken("not.a.token")
	assert.Error(t, err)
}
