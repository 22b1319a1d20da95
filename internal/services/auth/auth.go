package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"meetblog/internal/domain/models"
	"meetblog/internal/lib/logger/sl"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenIssuer is the slice of the token service the login flow needs.
type TokenIssuer interface {
	GenerateTokens(ctx context.Context, user models.AdminUser) (*models.TokenPair, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, userID string) error
}

// Auth authenticates the single configured editorial identity. There is no
// registration: the admin account comes from configuration.
type Auth struct {
	log    *slog.Logger
	admin  models.AdminUser
	tokens TokenIssuer
}

func New(log *slog.Logger, admin models.AdminUser, tokens TokenIssuer) *Auth {
	return &Auth{
		log:    log,
		admin:  admin,
		tokens: tokens,
	}
}

func (a *Auth) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	const op = "auth.Login"

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("attempting to login")

	if email != a.admin.Email {
		log.Warn("unknown email")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword(a.admin.PassHash, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := a.tokens.GenerateTokens(ctx, a.admin)
	if err != nil {
		log.Error("failed to generate tokens", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("logged in successfully")

	return pair, nil
}

func (a *Auth) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	const op = "auth.Refresh"

	pair, err := a.tokens.RefreshTokens(ctx, refreshToken)
	if err != nil {
		a.log.Warn("refresh rejected", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	return pair, nil
}

func (a *Auth) Logout(ctx context.Context, userID string) error {
	const op = "auth.Logout"

	if err := a.tokens.Logout(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
