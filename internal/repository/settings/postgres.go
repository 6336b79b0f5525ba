package settings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"todecor/internal/domain"
)

const settingsColumns = `id::text, site_name, logo_url, primary_color, secondary_color, accent_color, phone, email, address, facebook_url, instagram_url, linkedin_url, currency, tax_rate::text`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Get(ctx context.Context) (*domain.Settings, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+settingsColumns+` FROM website_settings LIMIT 1`)
	s, err := scanSettings(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *postgresRepo) Update(ctx context.Context, s domain.Settings) (*domain.Settings, error) {
	const q = `
UPDATE website_settings
SET site_name = $2,
    logo_url = $3,
    primary_color = $4,
    secondary_color = $5,
    accent_color = $6,
    phone = $7,
    email = $8,
    address = $9,
    facebook_url = $10,
    instagram_url = $11,
    linkedin_url = $12,
    currency = $13,
    tax_rate = $14::numeric
WHERE id = $1
RETURNING ` + settingsColumns
	row := r.pool.QueryRow(ctx, q,
		s.ID, s.SiteName, s.LogoURL, s.PrimaryColor, s.SecondaryColor, s.AccentColor,
		s.Phone, s.Email, s.Address, s.FacebookURL, s.InstagramURL, s.LinkedinURL,
		s.Currency, s.TaxRate.String())
	updated, err := scanSettings(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func scanSettings(row pgx.Row) (*domain.Settings, error) {
	var s domain.Settings
	var taxRate string
	if err := row.Scan(
		&s.ID,
		&s.SiteName,
		&s.LogoURL,
		&s.PrimaryColor,
		&s.SecondaryColor,
		&s.AccentColor,
		&s.Phone,
		&s.Email,
		&s.Address,
		&s.FacebookURL,
		&s.InstagramURL,
		&s.LinkedinURL,
		&s.Currency,
		&taxRate,
	); err != nil {
		return nil, err
	}
	var err error
	if s.TaxRate, err = decimal.NewFromString(taxRate); err != nil {
		return nil, err
	}
	return &s, nil
}
