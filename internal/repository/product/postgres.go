package product

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"todecor/internal/domain"
)

const productColumns = `id::text, name, slug, description, price::text, category, material, color, stock_quantity, image_url, gallery_urls, size_options, is_popular, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products`
	args := []interface{}{}
	switch {
	case f.Category != "" && f.PopularOnly:
		q += ` WHERE category = $1 AND is_popular`
		args = append(args, f.Category)
	case f.Category != "":
		q += ` WHERE category = $1`
		args = append(args, f.Category)
	case f.PopularOnly:
		q += ` WHERE is_popular`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.getWhere(ctx, `id = $1`, id)
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.getWhere(ctx, `slug = $1`, slug)
}

func (r *postgresRepo) getWhere(ctx context.Context, cond string, arg interface{}) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE `+cond, arg)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, slug, description, price, category, material, color, stock_quantity, image_url, gallery_urls, size_options, is_popular)
VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + productColumns
	row := r.pool.QueryRow(ctx, q,
		p.Name, p.Slug, p.Description, p.Price.String(), p.Category, p.Material, p.Color,
		p.StockQuantity, p.ImageURL, p.GalleryURLs, p.SizeOptions, p.IsPopular)
	created, err := scanProduct(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
UPDATE products
SET name = $2,
    description = $3,
    price = $4::numeric,
    category = $5,
    material = $6,
    color = $7,
    stock_quantity = $8,
    image_url = $9,
    gallery_urls = $10,
    size_options = $11,
    is_popular = $12
WHERE id = $1
RETURNING ` + productColumns
	row := r.pool.QueryRow(ctx, q,
		p.ID, p.Name, p.Description, p.Price.String(), p.Category, p.Material, p.Color,
		p.StockQuantity, p.ImageURL, p.GalleryURLs, p.SizeOptions, p.IsPopular)
	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, slug, description, price, category, material, color, stock_quantity, image_url, gallery_urls, size_options, is_popular)
VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (slug) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    category = EXCLUDED.category,
    material = EXCLUDED.material,
    color = EXCLUDED.color,
    stock_quantity = EXCLUDED.stock_quantity,
    image_url = EXCLUDED.image_url,
    gallery_urls = EXCLUDED.gallery_urls,
    size_options = EXCLUDED.size_options,
    is_popular = EXCLUDED.is_popular
RETURNING ` + productColumns
	row := r.pool.QueryRow(ctx, q,
		p.Name, p.Slug, p.Description, p.Price.String(), p.Category, p.Material, p.Color,
		p.StockQuantity, p.ImageURL, p.GalleryURLs, p.SizeOptions, p.IsPopular)
	return scanProduct(row)
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var price string
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&price,
		&p.Category,
		&p.Material,
		&p.Color,
		&p.StockQuantity,
		&p.ImageURL,
		&p.GalleryURLs,
		&p.SizeOptions,
		&p.IsPopular,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	p.Price = d
	return &p, nil
}
