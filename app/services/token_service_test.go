package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-signing-32-chars"

// createTestTokenService creates a token service for testing with symmetric key
func createTestTokenService(t *testing.T) TokenService {
	t.Helper()
	service, err := NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false, // useRSAKeys
		"",    // privateKeyPEM
		"",    // publicKeyPEM
		testSecret,
	)
	require.NoError(t, err)
	return service
}

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name        string
		useRSAKeys  bool
		secretKey   string
		expectError bool
	}{
		{name: "valid symmetric key configuration", secretKey: testSecret},
		{name: "missing secret key", expectError: true},
		{name: "rsa without keys", useRSAKeys: true, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := NewTokenService(time.Minute, time.Hour, "iss", "aud", tt.useRSAKeys, "", "", tt.secretKey)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, service)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, service)
		})
	}
}

func TestGenerateAndValidateOperatorTokens(t *testing.T) {
	service := createTestTokenService(t)

	accessToken, refreshToken, err := service.GenerateOperatorTokens(7, "alice", 3)
	require.NoError(t, err)
	assert.NotEqual(t, accessToken, refreshToken)

	tests := []struct {
		name      string
		token     string
		tokenType string
	}{
		{"access token", accessToken, TokenTypeAccess},
		{"refresh token", refreshToken, TokenTypeRefresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateOperatorToken(tt.token)
			require.NoError(t, err)
			assert.Equal(t, uint(7), claims.OperatorID)
			assert.Equal(t, "alice", claims.Username)
			assert.Equal(t, uint(3), claims.RoleID)
			assert.Equal(t, tt.tokenType, claims.TokenType)
			assert.NotEmpty(t, claims.TokenID)
			assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
		})
	}
}

func TestValidateOperatorTokenRejectsGarbage(t *testing.T) {
	service := createTestTokenService(t)

	for _, token := range []string{
		"",
		"invalid.token.format",
		"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature",
	} {
		claims, err := service.ValidateOperatorToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
		assert.Nil(t, claims)
	}
}

func TestValidateOperatorTokenWrongSecret(t *testing.T) {
	service := createTestTokenService(t)
	other, err := NewTokenService(time.Minute, time.Hour, "iss", "aud", false, "", "", "another-secret-key-with-enough-length")
	require.NoError(t, err)

	accessToken, _, err := other.GenerateOperatorTokens(1, "bob", 1)
	require.NoError(t, err)

	_, err = service.ValidateOperatorToken(accessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateOperatorTokenExpired(t *testing.T) {
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"operator_id": 1,
		"username":    "alice",
		"role_id":     1,
		"token_type":  TokenTypeAccess,
		"jti":         "abc",
		"iat":         time.Now().Add(-2 * time.Hour).Unix(),
		"exp":         time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	service := createTestTokenService(t)
	_, err = service.ValidateOperatorToken(signed)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshOperatorToken(t *testing.T) {
	service := createTestTokenService(t)

	accessToken, refreshToken, err := service.GenerateOperatorTokens(9, "carol", 2)
	require.NoError(t, err)

	t.Run("access token is refused", func(t *testing.T) {
		_, _, err := service.RefreshOperatorToken(accessToken)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("refresh rotates the pair", func(t *testing.T) {
		newAccess, newRefresh, err := service.RefreshOperatorToken(refreshToken)
		require.NoError(t, err)
		assert.NotEqual(t, refreshToken, newRefresh)

		claims, err := service.ValidateOperatorToken(newAccess)
		require.NoError(t, err)
		assert.Equal(t, "carol", claims.Username)
		assert.Equal(t, uint(2), claims.RoleID)
	})

	t.Run("used refresh token is revoked", func(t *testing.T) {
		_, _, err := service.RefreshOperatorToken(refreshToken)
		assert.ErrorIs(t, err, ErrTokenRevoked)
	})
}

func TestRevokeToken(t *testing.T) {
	service := createTestTokenService(t)

	accessToken, _, err := service.GenerateOperatorTokens(1, "dave", 1)
	require.NoError(t, err)

	require.NoError(t, service.RevokeToken(accessToken))
	_, err = service.ValidateOperatorToken(accessToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	assert.NoError(t, service.RevokeToken(accessToken), "revoking twice is a no-op")
	assert.Error(t, service.RevokeToken("invalid.token"))
}
