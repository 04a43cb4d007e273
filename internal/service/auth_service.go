package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"accesshub/internal/model"
	"accesshub/internal/repository"
	"accesshub/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// DTOs for request validation

type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UserResponse returns a user without exposing sensitive data
type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	CreatedAt string     `json:"created_at"`
}

type TokenResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

// AuthService verifies credentials and produces the Principal every other
// operation consumes. Signup always yields an Employee; other roles come
// from the bootstrap seed or administrative updates.
type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	Refresh(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error)
	GetProfile(ctx context.Context, principal model.Principal) (*UserResponse, error)
}

type authService struct {
	users  repository.UserRepository
	tokens repository.RefreshTokenRepository
	txm    repository.TransactionManager
	secret []byte
}

// NewAuthService returns a new instance of AuthService
func NewAuthService(users repository.UserRepository, tokens repository.RefreshTokenRepository, txm repository.TransactionManager, secret []byte) AuthService {
	return &authService{users: users, tokens: tokens, txm: txm, secret: secret}
}

func toUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func (s *authService) Signup(ctx context.Context, req SignupRequest) (*UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", apperror.ErrInvalidArgument)
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: username already exists", apperror.ErrInvalidArgument)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to hash password", apperror.ErrInternal)
	}

	user := &model.User{
		Username: username,
		Email:    req.Email,
		Password: string(hashed),
		Role:     model.RoleEmployee,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return toUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperror.ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperror.ErrUnauthenticated)
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates the refresh token: the presented token is consumed and a
// new pair is issued atomically.
func (s *authService) Refresh(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error) {
	stored, err := s.tokens.GetByToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", apperror.ErrUnauthenticated)
	}

	if time.Now().After(stored.ExpiresAt) {
		return nil, fmt.Errorf("%w: refresh token expired", apperror.ErrUnauthenticated)
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", apperror.ErrUnauthenticated)
	}

	var tokenRes *TokenResponse
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if delErr := s.tokens.Delete(txCtx, req.RefreshToken); delErr != nil {
			return delErr
		}
		var issueErr error
		tokenRes, issueErr = s.issueTokens(txCtx, user)
		return issueErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return tokenRes, nil
}

func (s *authService) GetProfile(ctx context.Context, principal model.Principal) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return toUserResponse(user), nil
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (*TokenResponse, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"role":     string(user.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(accessTokenTTL).Unix(),
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to sign token", apperror.ErrInternal)
	}

	refresh := &model.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(refreshTokenTTL),
	}
	if err := s.tokens.Create(ctx, refresh); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenResponse{
		Token:        tokenString,
		RefreshToken: refresh.Token,
		User:         *toUserResponse(user),
	}, nil
}
