package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/schoolsite/internal/app/models"
	"github.com/yigit/schoolsite/internal/app/models/dto"
	"github.com/yigit/schoolsite/internal/pkg/apperrors"
	"github.com/yigit/schoolsite/internal/pkg/auth"
)

// Login messages
const (
	MsgInvalidCredentials = "Invalid username or password."
	MsgAccountDisabled    = "This account is disabled."
	MsgLoginFailed        = "Login failed. Please try again later."
)

// TokenIssuer signs access tokens for users
type TokenIssuer interface {
	GenerateAccessToken(user *models.User) (string, int64, error)
}

// AuthService authenticates portal users issued by admission
type AuthService struct {
	users  UserReader
	tokens TokenIssuer
	logger zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserReader, tokens TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Login checks the username and password and returns a signed access token.
// Unknown users and wrong passwords get the same answer.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, apperrors.NewUserInputError(apperrors.ErrInvalidCredentials, MsgInvalidCredentials)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewUserInputError(apperrors.ErrInvalidCredentials, MsgInvalidCredentials)
		}
		s.logger.Error().Err(err).Str("username", username).Msg("Failed to load user for login")
		return nil, apperrors.NewStorageError(MsgLoginFailed, err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Info().Str("username", username).Msg("Rejected login with wrong password")
		return nil, apperrors.NewUserInputError(apperrors.ErrInvalidCredentials, MsgInvalidCredentials)
	}

	if !user.IsActive {
		return nil, apperrors.NewUserInputError(apperrors.ErrAccountDisabled, MsgAccountDisabled)
	}

	token, expiresIn, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to sign access token")
		return nil, apperrors.NewStorageError(MsgLoginFailed, err)
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User logged in")
	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		User: dto.UserResponse{
			ID:       user.ID,
			Username: user.Username,
			FullName: user.FullName,
			Role:     string(user.Role),
		},
	}, nil
}
