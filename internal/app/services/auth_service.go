package services

import (
	"context"
	"crypto/subtle"

	"github.com/rs/zerolog"

	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/auth"
)

// AuthService issues API tokens for the administrator account
type AuthService struct {
	username     string
	passwordHash string
	jwtService   *auth.JWTService
	logger       zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(username, passwordHash string, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		username:     username,
		passwordHash: passwordHash,
		jwtService:   jwtService,
		logger:       logger,
	}
}

// IssueToken checks the credentials and returns a signed access token
func (s *AuthService) IssueToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.username)) == 1
	passOK := auth.CheckPassword(s.passwordHash, req.Password)
	if !userOK || !passOK {
		s.logger.Warn().Str("username", req.Username).Msg("Rejected login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(req.Username)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", req.Username).Msg("Access token issued")
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	}, nil
}
