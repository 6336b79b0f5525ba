package profile

import (
	"context"

	"todecor/internal/domain"
)

// Credentials is the login view of a profile row.
type Credentials struct {
	UserID       string
	Email        string
	PasswordHash string
}

type Repository interface {
	Create(ctx context.Context, email, passwordHash string) (*domain.Profile, error)
	GetByID(ctx context.Context, userID string) (*domain.Profile, error)
	CredentialsByEmail(ctx context.Context, email string) (*Credentials, error)
	// Upsert writes the checkout-form fields for the user, leaving the
	// password hash and admin flag untouched.
	Upsert(ctx context.Context, p domain.Profile) error
}
