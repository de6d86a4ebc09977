package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewService("s3cret", time.Hour)

	t.Run("round trip", func(t *testing.T) {
		token, err := svc.GenerateToken("U123", true)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "U123", claims.PlayerID)
		assert.True(t, claims.IsAdmin)
		assert.Equal(t, "U123", claims.Subject)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewService("other", time.Hour).GenerateToken("U123", true)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := NewService("s3cret", -time.Minute).GenerateToken("U123", false)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing player id", func(t *testing.T) {
		token, err := svc.GenerateToken("", false)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
