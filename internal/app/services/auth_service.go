package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/formco/backend/internal/app/models"
	"github.com/formco/backend/internal/app/models/dto"
	"github.com/formco/backend/internal/app/repositories"
	"github.com/formco/backend/internal/pkg/apperrors"
	"github.com/formco/backend/internal/pkg/auth"
	"github.com/formco/backend/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   repositories.IUserRepository
	jwtService *auth.JWTService
	hasher     *auth.PasswordHasher
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	jwtService *auth.JWTService,
	hasher *auth.PasswordHasher,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		hasher:     hasher,
		logger:     logger,
	}
}

// Register creates a student, organizer or organization account and signs it in
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := validation.ValidateRegistration(req.Email, req.Password, req.Name); err != nil {
		return nil, err
	}
	if !req.RoleType.IsValid() {
		return nil, apperrors.NewBadRequestError("roleType must be one of STUDENT, ORGANIZER, ORGANIZATION")
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    validation.NormalizeEmail(req.Email),
		Password: hashed,
		Name:     strings.TrimSpace(req.Name),
		RoleType: req.RoleType,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().Str("userID", user.ID).Str("role", string(user.RoleType)).Msg("Account registered")
	return s.authResponse(user)
}

// Login verifies credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, validation.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Check(user.Password, req.Password) {
		s.logger.Warn().Str("userID", user.ID).Msg("Login with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.authResponse(user)
}

// GetProfile returns the account behind userID
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		s.logger.Error().Err(err).Str("userID", user.ID).Msg("Failed to sign access token")
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		User: dto.NewUserResponse(user),
	}, nil
}
