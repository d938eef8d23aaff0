package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-unlock-secret-key-for-testing-purposes"

func TestNewService(t *testing.T) {
	service := NewService(testSecret, 30*time.Minute)

	assert.NotNil(t, service)
	assert.Equal(t, testSecret, service.secret)
	assert.Equal(t, 30*time.Minute, service.Expiry())
}

func TestGenerateUnlockToken(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	token, err := service.GenerateUnlockToken(PayrollScope)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateUnlockToken(token, PayrollScope)
	require.NoError(t, err)
	assert.Equal(t, PayrollScope, claims.Scope)
	assert.Equal(t, "payroll", claims.Subject)
	assert.Equal(t, issuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestValidateUnlockToken(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	t.Run("Wrong scope", func(t *testing.T) {
		token, err := service.GenerateUnlockToken(ExpensesScope)
		require.NoError(t, err)

		_, err = service.ValidateUnlockToken(token, PayrollScope)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid token scope")
	})

	t.Run("Wrong secret", func(t *testing.T) {
		other := NewService("another-secret", time.Hour)
		token, err := other.GenerateUnlockToken(PayrollScope)
		require.NoError(t, err)

		_, err = service.ValidateUnlockToken(token, PayrollScope)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("Expired", func(t *testing.T) {
		expired := NewService(testSecret, time.Minute)
		expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := expired.GenerateUnlockToken(PayrollScope)
		require.NoError(t, err)

		_, err = service.ValidateUnlockToken(token, PayrollScope)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("Malformed", func(t *testing.T) {
		tests := []string{"", "invalid.token.here", "randomstringnotavalidtoken"}
		for _, tt := range tests {
			_, err := service.ValidateUnlockToken(tt, PayrollScope)
			assert.Error(t, err)
		}
	})

	t.Run("Unexpected signing method", func(t *testing.T) {
		claims := Claims{
			Scope: PayrollScope,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    issuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
		tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.ValidateUnlockToken(tokenString, PayrollScope)
		assert.Error(t, err)
	})

	t.Run("Foreign issuer", func(t *testing.T) {
		claims := Claims{
			Scope: PayrollScope,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		tokenString, err := token.SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = service.ValidateUnlockToken(tokenString, PayrollScope)
		assert.Error(t, err)
	})
}
