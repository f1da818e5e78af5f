package service

import (
	"context"
	"errors"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/pkg/auth"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password; the two are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserStore is the subset of the user repository the auth service needs.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenRevoker records tokens that must no longer authenticate.
type TokenRevoker interface {
	Blacklist(ctx context.Context, token string, expiresAt time.Time) error
}

type AuthService struct {
	users      UserStore
	tokens     TokenRevoker
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

func NewAuthService(users UserStore, tokens TokenRevoker, jwtManager *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	existing, _ := s.users.GetByEmail(ctx, req.Email)
	if existing != nil {
		return nil, ErrUserExists
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:        uuid.New(),
		Email:     req.Email,
		Password:  hashedPassword,
		FirstName: req.FullName.FirstName,
		LastName:  req.FullName.LastName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.jwtManager.GenerateToken(user.ID.String())
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.String("email", user.Email))

	return authResponse(token, user), nil
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !auth.CheckPasswordHash(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateToken(user.ID.String())
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", zap.String("email", user.Email))

	return authResponse(token, user), nil
}

// Logout revokes a bearer token. The blacklist entry stays valid for the
// token lifetime, after which the token would be rejected as expired anyway.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.tokens.Blacklist(ctx, token, time.Now().Add(s.jwtManager.TokenDuration()))
}

func authResponse(token string, user *models.User) *dto.AuthResponse {
	return &dto.AuthResponse{
		Token: token,
		User: dto.UserResponse{
			ID:    user.ID.String(),
			Email: user.Email,
			FullName: dto.FullNameResponse{
				FirstName: user.FirstName,
				LastName:  user.LastName,
			},
		},
	}
}
