// Package identity provides the storefront's authentication: signup, login,
// current-user resolution from an opaque access token, and sign-out.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"todecor/internal/domain"
	profilerepo "todecor/internal/repository/profile"
	tokenrepo "todecor/internal/repository/token"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
	// ErrWeakPassword rejects signups below the minimum password length.
	ErrWeakPassword = errors.New("password too short")
)

// Service handles signup/login and token-based identity lookups.
type Service struct {
	profiles    profilerepo.Repository
	tokens      *tokenManager
	accessTTL   time.Duration
	passwordMin int
}

// New creates a Service with sane defaults.
func New(profiles profilerepo.Repository, tokens tokenrepo.Repository) *Service {
	return &Service{
		profiles:    profiles,
		tokens:      newTokenManager(tokens),
		accessTTL:   48 * time.Hour,
		passwordMin: 8,
	}
}

// Signup registers a new account and logs it in, returning the user and an
// access token.
func (s *Service) Signup(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, "", errors.New("email required")
	}
	password = strings.TrimSpace(password)
	if len(password) < s.passwordMin {
		return nil, "", fmt.Errorf("%w: need at least %d characters", ErrWeakPassword, s.passwordMin)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	profile, err := s.profiles.Create(ctx, email, string(hashed))
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(ctx, profile.UserID, s.accessTTL)
	if err != nil {
		return nil, "", err
	}
	return &domain.User{ID: profile.UserID, Email: profile.Email}, token, nil
}

// Login validates credentials and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	creds, err := s.profiles.CredentialsByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, creds.UserID, s.accessTTL)
	if err != nil {
		return nil, "", err
	}
	return &domain.User{ID: creds.UserID, Email: creds.Email}, token, nil
}

// Current resolves the user bound to a valid access token.
func (s *Service) Current(ctx context.Context, token string) (*domain.User, error) {
	userID, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil, ErrInvalidToken
	}
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return &domain.User{ID: profile.UserID, Email: profile.Email}, nil
}

// IsAdmin reports whether the token belongs to a back-office account.
func (s *Service) IsAdmin(ctx context.Context, token string) (bool, error) {
	userID, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return false, ErrInvalidToken
	}
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return profile.IsAdmin, nil
}

// SignOut revokes the token. Revoking an unknown token is not an error.
func (s *Service) SignOut(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}
