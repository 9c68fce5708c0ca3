package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "delay-tracker/pkg/errors"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, 24*time.Hour)

	access, refresh, err := svc.GenerateTokens(42)
	require.NoError(t, err)

	accessClaims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, int64(42), accessClaims.UserID)
	assert.False(t, accessClaims.IsRefreshToken)

	refreshClaims, err := svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.True(t, refreshClaims.IsRefreshToken)
}

func TestJWTService_RejectsForeignSecret(t *testing.T) {
	access, _, err := NewJWTService("secret-a", time.Hour, time.Hour).GenerateTokens(1)
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", time.Hour, time.Hour).ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute, time.Hour)

	access, _, err := svc.GenerateTokens(1)
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.Error(t, err)
}

func TestJWTService_TTLAccessors(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, 24*time.Hour)
	assert.Equal(t, time.Hour, svc.GetAccessTokenTTL())
	assert.Equal(t, 24*time.Hour, svc.GetRefreshTokenTTL())
}
