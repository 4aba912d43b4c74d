package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/infrastructure/config"
)

func newTestService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing-32ch",
		TokenExpiration: expiration,
		Issuer:          "storefront-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := newTestService(time.Hour)
	userID := uuid.New()

	token, err := service.GenerateToken(userID, "alice@example.com", "customer")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, "storefront-test", claims.Issuer)
	assert.False(t, claims.IsAdmin())

	parsed, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestJWTService_ValidateToken(t *testing.T) {
	t.Run("rejects expired tokens", func(t *testing.T) {
		service := newTestService(-time.Minute)

		token, err := service.GenerateToken(uuid.New(), "alice@example.com", "customer")
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects garbage tokens", func(t *testing.T) {
		service := newTestService(time.Hour)

		_, err := service.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects tokens signed with a different secret", func(t *testing.T) {
		service := newTestService(time.Hour)
		other := NewJWTService(config.JWTConfig{
			Secret:          "another-secret-key-entirely-32chars!",
			TokenExpiration: time.Hour,
			Issuer:          "storefront-test",
		})

		token, err := other.GenerateToken(uuid.New(), "alice@example.com", "customer")
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("recognizes admin role", func(t *testing.T) {
		service := newTestService(time.Hour)

		token, err := service.GenerateToken(uuid.New(), "root@example.com", "admin")
		require.NoError(t, err)

		claims, err := service.ValidateToken(token)
		require.NoError(t, err)
		assert.True(t, claims.IsAdmin())
	})
}
