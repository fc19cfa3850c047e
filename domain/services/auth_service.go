package services

import (
	"context"
	"errors"

	"smart-attendance/domain/models"
)

// Custom errors for auth service
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserInactive       = errors.New("user account is inactive")
)

type AuthService interface {
	Register(ctx context.Context, email, username, password string) (*models.User, error)
	// Login verifies credentials and returns a signed JWT with the user.
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	GetCurrentUser(ctx context.Context, tokenString string) (*models.User, error)
}
