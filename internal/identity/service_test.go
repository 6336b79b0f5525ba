package identity

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"todecor/internal/domain"
	profilerepo "todecor/internal/repository/profile"
	tokenrepo "todecor/internal/repository/token"
)

type fakeProfiles struct {
	nextID   int
	byID     map[string]*domain.Profile
	byEmail  map[string]*profilerepo.Credentials
	upserted []domain.Profile
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		byID:    map[string]*domain.Profile{},
		byEmail: map[string]*profilerepo.Credentials{},
	}
}

func (f *fakeProfiles) Create(_ context.Context, email, hash string) (*domain.Profile, error) {
	if _, ok := f.byEmail[email]; ok {
		return nil, domain.ErrAlreadyExists
	}
	f.nextID++
	id := fmt.Sprintf("u%d", f.nextID)
	p := &domain.Profile{UserID: id, Email: email}
	f.byID[id] = p
	f.byEmail[email] = &profilerepo.Credentials{UserID: id, Email: email, PasswordHash: hash}
	return p, nil
}

func (f *fakeProfiles) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfiles) CredentialsByEmail(_ context.Context, email string) (*profilerepo.Credentials, error) {
	c, ok := f.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, p domain.Profile) error {
	f.upserted = append(f.upserted, p)
	return nil
}

type fakeTokens struct {
	byToken map[string]tokenrepo.Token
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{byToken: map[string]tokenrepo.Token{}}
}

func (f *fakeTokens) Create(_ context.Context, t tokenrepo.Token) error {
	if _, ok := f.byToken[t.Token]; ok {
		return domain.ErrAlreadyExists
	}
	f.byToken[t.Token] = t
	return nil
}

func (f *fakeTokens) Get(_ context.Context, token string) (*tokenrepo.Token, error) {
	t, ok := f.byToken[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (f *fakeTokens) Delete(_ context.Context, token string) error {
	delete(f.byToken, token)
	return nil
}

func TestSignupLoginCurrentSignOut(t *testing.T) {
	ctx := context.Background()
	svc := New(newFakeProfiles(), newFakeTokens())

	user, token, err := svc.Signup(ctx, "Amira@Example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if user.Email != "amira@example.com" {
		t.Fatalf("signup must normalize email, got %q", user.Email)
	}
	if token == "" {
		t.Fatal("signup must issue a token")
	}

	got, err := svc.Current(ctx, token)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, got.ID)
	}

	user2, token2, err := svc.Login(ctx, "amira@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user2.ID != user.ID || token2 == token {
		t.Fatalf("login must issue a fresh token for the same user")
	}

	if err := svc.SignOut(ctx, token); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := svc.Current(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after sign-out, got %v", err)
	}
	// The second token survives the first one's revocation.
	if _, err := svc.Current(ctx, token2); err != nil {
		t.Fatalf("second token must stay valid: %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	svc := New(newFakeProfiles(), newFakeTokens())
	if _, _, err := svc.Signup(ctx, "a@b.c", "s3cretpass"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if _, _, err := svc.Login(ctx, "a@b.c", "wrongpass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@b.c", "s3cretpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email must look like bad credentials, got %v", err)
	}
}

func TestSignup_ShortPasswordRejected(t *testing.T) {
	svc := New(newFakeProfiles(), newFakeTokens())
	if _, _, err := svc.Signup(context.Background(), "a@b.c", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestCurrent_ExpiredTokenRejected(t *testing.T) {
	ctx := context.Background()
	profiles := newFakeProfiles()
	tokens := newFakeTokens()
	svc := New(profiles, tokens)

	_, token, err := svc.Signup(ctx, "a@b.c", "s3cretpass")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	stored := tokens.byToken[token]
	stored.ExpiresAt = time.Now().Add(-time.Minute)
	tokens.byToken[token] = stored

	if _, err := svc.Current(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
	if _, ok := tokens.byToken[token]; ok {
		t.Fatal("expired token must be deleted on validation")
	}
}
