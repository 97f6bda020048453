package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestTokenService creates a token service for testing with symmetric key
func createTestTokenService() (TokenService, error) {
	return NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false, // useRSAKeys
		"",    // privateKeyPEM
		"",    // publicKeyPEM
		"test-secret-key-for-jwt-signing-32-chars", // secretKey
		nil, // revocations: in-memory default
	)
}

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name        string
		useRSAKeys  bool
		secretKey   string
		expectError bool
	}{
		{
			name:        "valid symmetric key configuration",
			useRSAKeys:  false,
			secretKey:   "test-secret-key-for-jwt-signing-32-chars",
			expectError: false,
		},
		{
			name:        "missing secret key",
			useRSAKeys:  false,
			secretKey:   "",
			expectError: true,
		},
		{
			name:        "rsa mode without keys",
			useRSAKeys:  true,
			secretKey:   "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := NewTokenService(
				15*time.Minute, 7*24*time.Hour,
				"test-issuer", "test-audience",
				tt.useRSAKeys, "", "", tt.secretKey, nil,
			)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, service)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, service)
			}
		})
	}
}

func TestGenerateAndValidateTokens(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)
	ctx := context.Background()

	accessToken, refreshToken, err := service.GenerateTokens(42)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	t.Run("AccessClaims", func(t *testing.T) {
		claims, err := service.ValidateToken(ctx, accessToken)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, "access", claims.TokenType)
		assert.NotEmpty(t, claims.TokenID)
		assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
	})

	t.Run("RefreshClaims", func(t *testing.T) {
		claims, err := service.ValidateToken(ctx, refreshToken)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, "refresh", claims.TokenType)
	})

	t.Run("DistinctTokenIDs", func(t *testing.T) {
		access, err := service.ValidateToken(ctx, accessToken)
		require.NoError(t, err)
		refresh, err := service.ValidateToken(ctx, refreshToken)
		require.NoError(t, err)
		assert.NotEqual(t, access.TokenID, refresh.TokenID)
	})
}

func TestValidateTokenRejectsBadInput(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("Garbage", func(t *testing.T) {
		_, err := service.ValidateToken(ctx, "not.a.token")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := service.ValidateToken(ctx, "")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("WrongSigningKey", func(t *testing.T) {
		other, err := NewTokenService(
			15*time.Minute, 7*24*time.Hour,
			"test-issuer", "test-audience",
			false, "", "", "a-completely-different-32-char-secret!!", nil,
		)
		require.NoError(t, err)

		token, _, err := other.GenerateTokens(1)
		require.NoError(t, err)

		_, err = service.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestTokenExpiration(t *testing.T) {
	service, err := NewTokenService(
		-1*time.Minute, // already expired on issue
		7*24*time.Hour,
		"test-issuer", "test-audience",
		false, "", "", "test-secret-key-for-jwt-signing-32-chars", nil,
	)
	require.NoError(t, err)

	accessToken, _, err := service.GenerateTokens(7)
	require.NoError(t, err)

	_, err = service.ValidateToken(context.Background(), accessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRevokeToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)
	ctx := context.Background()

	accessToken, _, err := service.GenerateTokens(9)
	require.NoError(t, err)

	_, err = service.ValidateToken(ctx, accessToken)
	require.NoError(t, err)

	require.NoError(t, service.RevokeToken(ctx, accessToken))

	_, err = service.ValidateToken(ctx, accessToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// Revoking an already revoked token is a no-op.
	assert.NoError(t, service.RevokeToken(ctx, accessToken))
}

func TestRefreshToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)
	ctx := context.Background()

	_, refreshToken, err := service.GenerateTokens(11)
	require.NoError(t, err)

	t.Run("RotatesPair", func(t *testing.T) {
		newAccess, newRefresh, err := service.RefreshToken(ctx, refreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)
		assert.NotEqual(t, refreshToken, newRefresh)

		claims, err := service.ValidateToken(ctx, newAccess)
		require.NoError(t, err)
		assert.Equal(t, uint(11), claims.UserID)
		assert.Equal(t, "access", claims.TokenType)
	})

	t.Run("UsedRefreshTokenIsRevoked", func(t *testing.T) {
		_, _, err := service.RefreshToken(ctx, refreshToken)
		assert.Error(t, err)
	})

	t.Run("AccessTokenIsNotARefreshToken", func(t *testing.T) {
		accessToken, _, err := service.GenerateTokens(11)
		require.NoError(t, err)

		_, _, err = service.RefreshToken(ctx, accessToken)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestMemoryRevocationStore(t *testing.T) {
	store := NewMemoryRevocationStore()
	ctx := context.Background()

	t.Run("RevokedWithinTTL", func(t *testing.T) {
		require.NoError(t, store.Revoke(ctx, "token-a", time.Hour))
		revoked, err := store.IsRevoked(ctx, "token-a")
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("UnknownTokenIsNotRevoked", func(t *testing.T) {
		revoked, err := store.IsRevoked(ctx, "never-seen")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("ExpiredEntryIsPruned", func(t *testing.T) {
		require.NoError(t, store.Revoke(ctx, "token-b", -time.Second))
		revoked, err := store.IsRevoked(ctx, "token-b")
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}
