package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"delay-tracker/internal/dto"
	"delay-tracker/internal/repositories"
	apperrors "delay-tracker/pkg/errors"
	"delay-tracker/pkg/service"
)

type AuthService struct {
	userRepo repositories.UserRepositoryInterface
	jwtSvc   service.JWTService
	logger   *zap.Logger
}

func NewAuthService(userRepo repositories.UserRepositoryInterface, jwtSvc service.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, jwtSvc: jwtSvc, logger: logger}
}

// Login verifies the credentials and issues an access/refresh token pair.
// A missing user and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, payload.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		s.logger.Error("login lookup failed", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to sign in")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.jwtSvc.GenerateTokens(user.ID)
	if err != nil {
		s.logger.Error("token generation failed", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to sign in")
	}

	return &dto.TokenPairDTO{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
