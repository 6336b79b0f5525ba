package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"todecor/internal/domain"
	tokenrepo "todecor/internal/repository/token"
)

type tokenManager struct {
	repo tokenrepo.Repository
}

func newTokenManager(repo tokenrepo.Repository) *tokenManager {
	return &tokenManager{repo: repo}
}

func (m *tokenManager) Issue(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	expiresAt := time.Now().Add(ttl)
	for i := 0; i < 5; i++ {
		token, err := randomToken()
		if err != nil {
			return "", err
		}
		err = m.repo.Create(ctx, tokenrepo.Token{
			Token:     token,
			UserID:    userID,
			ExpiresAt: expiresAt,
		})
		if err == nil {
			return token, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return "", err
	}
	return "", errors.New("token collision")
}

func (m *tokenManager) Validate(ctx context.Context, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	meta, err := m.repo.Get(ctx, token)
	if err != nil {
		return "", false
	}
	if time.Now().After(meta.ExpiresAt) {
		_ = m.repo.Delete(ctx, token)
		return "", false
	}
	return meta.UserID, true
}

func (m *tokenManager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.repo.Delete(ctx, token)
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
