package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"delay-tracker/internal/dto"
	"delay-tracker/internal/entities"
	apperrors "delay-tracker/pkg/errors"
	"delay-tracker/pkg/service"
)

func newTestAuthService(t *testing.T, users map[int64]*entities.User) *AuthService {
	t.Helper()
	jwtSvc := service.NewJWTService("test-secret", time.Hour, 24*time.Hour)
	return NewAuthService(&fakeUserRepo{Users: users}, jwtSvc, zap.NewNop())
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	users := map[int64]*entities.User{
		1: {ID: 1, Username: "anna", PasswordHash: string(hash), Role: "manager"},
	}
	svc := newTestAuthService(t, users)

	tokens, err := svc.Login(context.Background(), dto.LoginDTO{Username: "anna", Password: "s3cret"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	users := map[int64]*entities.User{
		1: {ID: 1, Username: "anna", PasswordHash: string(hash), Role: "manager"},
	}
	svc := newTestAuthService(t, users)

	_, err = svc.Login(context.Background(), dto.LoginDTO{Username: "anna", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := newTestAuthService(t, nil)

	_, err := svc.Login(context.Background(), dto.LoginDTO{Username: "ghost", Password: "s3cret"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
