package usecase

import (
	"context"

	"theater-booking-api/internal/pkg/config"
	"theater-booking-api/internal/pkg/errs"
	"theater-booking-api/internal/pkg/jwt"
	"theater-booking-api/internal/pkg/password"
)

var ErrInvalidCredentials = errs.New("invalid credentials")

const adminRole = "admin"

// AuthCommands signs in the single env-configured admin used by the
// reporting UI. User management belongs to the main booking backend.
type AuthCommands interface {
	Login(ctx context.Context, email, plainPassword string) (string, error)
}

type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

type authCommandsImpl struct {
	admin      config.AdminConfig
	jwtService *jwt.Service
}

func NewAuthCommands(cfg config.Config, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		admin:      cfg.Admin,
		jwtService: jwtService,
	}
}

func (u *authCommandsImpl) Login(_ context.Context, email, plainPassword string) (string, error) {
	if email != u.admin.Email {
		return "", ErrInvalidCredentials
	}
	if err := password.ComparePassword(u.admin.PasswordHash, plainPassword); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := u.jwtService.GenerateToken(email, adminRole)
	if err != nil {
		return "", errs.Wrap(err, "failed to generate token")
	}
	return token, nil
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{jwtService: jwtService}
}

func (v *tokenValidatorImpl) ValidateToken(token string) (*jwt.Claims, error) {
	return v.jwtService.ValidateToken(token)
}
