package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"meetblog/internal/domain/models"
	"meetblog/internal/repository"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidTokenClaims = errors.New("invalid token claims")
	ErrTokenNotInStorage  = errors.New("token not found in storage")
)

// TokenService issues and rotates the editorial JWT pair. Refresh tokens
// are single-use: a successful refresh revokes the presented token.
type TokenService struct {
	repo       repository.TokenRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(repo repository.TokenRepository, secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		repo:       repo,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *TokenService) GenerateTokens(ctx context.Context, user models.AdminUser) (*models.TokenPair, error) {
	accessToken, err := s.newToken(user, s.accessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.newToken(user, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveRefreshToken(ctx, user.ID, refreshToken, s.refreshTTL); err != nil {
		return nil, err
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshTokens validates the presented refresh token against the store,
// revokes it and issues a fresh pair.
func (s *TokenService) RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	userID, email, err := s.parse(refreshToken)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.GetRefreshToken(ctx, userID, refreshToken)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTokenNotInStorage
	}

	if err := s.repo.DeleteRefreshToken(ctx, userID, refreshToken); err != nil {
		return nil, err
	}

	return s.GenerateTokens(ctx, models.AdminUser{ID: userID, Email: email})
}

// ParseAccessToken verifies the signature and expiry and returns the
// identity baked into the token.
func (s *TokenService) ParseAccessToken(tokenString string) (userID, email string, err error) {
	return s.parse(tokenString)
}

// Logout revokes every refresh token of the user.
func (s *TokenService) Logout(ctx context.Context, userID string) error {
	return s.repo.DeleteAllUserTokens(ctx, userID)
}

func (s *TokenService) parse(tokenString string) (userID, email string, err error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidTokenClaims
	}

	userID, ok = claims["uid"].(string)
	if !ok {
		return "", "", ErrInvalidTokenClaims
	}
	email, _ = claims["email"].(string)

	return userID, email, nil
}

func (s *TokenService) newToken(user models.AdminUser, duration time.Duration) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["uid"] = user.ID
	claims["email"] = user.Email
	claims["iat"] = time.Now().Unix()
	claims["exp"] = time.Now().Add(duration).Unix()

	return token.SignedString(s.secret)
}
