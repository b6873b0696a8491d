package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techradar-io/radar-api/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var fixedNow = time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

func newTestValidator(t *testing.T) *hmacValidator {
	t.Helper()
	v, err := newHMACValidator(testSecret, func() time.Time { return fixedNow })
	require.NoError(t, err)
	return v
}

func TestNewTokenValidator_ShortSecret(t *testing.T) {
	_, err := NewTokenValidator(config.AuthConfig{JWTSecret: "short"})
	require.Error(t, err)

	_, err = NewTokenValidator(config.AuthConfig{JWTSecret: testSecret})
	require.NoError(t, err)
}

func TestValidateToken(t *testing.T) {
	v := newTestValidator(t)
	userID := uuid.New()

	token, err := SignToken(testSecret, userID, fixedNow.Add(-time.Minute), time.Hour)
	require.NoError(t, err)

	claims, err := v.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, fixedNow.Add(59*time.Minute), claims.ExpiresAt)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken_Rejections(t *testing.T) {
	v := newTestValidator(t)
	userID := uuid.New()

	expired, err := SignToken(testSecret, userID, fixedNow.Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)
	future, err := SignToken(testSecret, userID, fixedNow.Add(time.Hour), time.Hour)
	require.NoError(t, err)
	foreign, err := SignToken(strings.Repeat("x", 32), userID, fixedNow, time.Hour)
	require.NoError(t, err)
	noUser, err := SignToken(testSecret, uuid.Nil, fixedNow, time.Hour)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"uid": userID.String(),
		"exp": fixedNow.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"missing", "", ErrMissingToken},
		{"garbage", "not.a.token", ErrInvalidToken},
		{"expired", expired, ErrExpiredToken},
		{"wrong secret", foreign, ErrInvalidToken},
		{"no user", noUser, ErrInvalidToken},
		{"alg none", noneAlg, ErrInvalidToken},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.ValidateToken(context.Background(), tc.token)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("issued in the future", func(t *testing.T) {
		_, err := v.ValidateToken(context.Background(), future)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
