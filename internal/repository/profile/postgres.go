package profile

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"todecor/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, email, passwordHash string) (*domain.Profile, error) {
	const q = `
INSERT INTO profiles (email, password_hash)
VALUES ($1, $2)
RETURNING id::text, email, first_name, last_name, phone, address, city, postal_code, is_admin, created_at
`
	var p domain.Profile
	if err := r.pool.QueryRow(ctx, q, email, passwordHash).Scan(
		&p.UserID,
		&p.Email,
		&p.FirstName,
		&p.LastName,
		&p.Phone,
		&p.Address,
		&p.City,
		&p.PostalCode,
		&p.IsAdmin,
		&p.CreatedAt,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, userID string) (*domain.Profile, error) {
	const q = `
SELECT id::text, email, first_name, last_name, phone, address, city, postal_code, is_admin, created_at
FROM profiles
WHERE id = $1
`
	var p domain.Profile
	if err := r.pool.QueryRow(ctx, q, userID).Scan(
		&p.UserID,
		&p.Email,
		&p.FirstName,
		&p.LastName,
		&p.Phone,
		&p.Address,
		&p.City,
		&p.PostalCode,
		&p.IsAdmin,
		&p.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) CredentialsByEmail(ctx context.Context, email string) (*Credentials, error) {
	const q = `
SELECT id::text, email, password_hash
FROM profiles
WHERE lower(email) = lower($1)
LIMIT 1
`
	var c Credentials
	if err := r.pool.QueryRow(ctx, q, email).Scan(&c.UserID, &c.Email, &c.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Profile) error {
	const q = `
UPDATE profiles
SET first_name = $2,
    last_name = $3,
    phone = $4,
    address = $5,
    city = $6,
    postal_code = $7
WHERE id = $1
`
	tag, err := r.pool.Exec(ctx, q, p.UserID, p.FirstName, p.LastName, p.Phone, p.Address, p.City, p.PostalCode)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
