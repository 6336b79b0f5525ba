package testimonial

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"todecor/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, t domain.Testimonial) (*domain.Testimonial, error) {
	const q = `
INSERT INTO testimonials (author, body, rating)
VALUES ($1, $2, $3)
RETURNING id::text, author, body, rating, is_approved, created_at
`
	var out domain.Testimonial
	if err := r.pool.QueryRow(ctx, q, t.Author, t.Body, t.Rating).Scan(
		&out.ID, &out.Author, &out.Body, &out.Rating, &out.IsApproved, &out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) ListApproved(ctx context.Context) ([]domain.Testimonial, error) {
	return r.list(ctx, `
SELECT id::text, author, body, rating, is_approved, created_at
FROM testimonials
WHERE is_approved
ORDER BY created_at DESC
`)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Testimonial, error) {
	return r.list(ctx, `
SELECT id::text, author, body, rating, is_approved, created_at
FROM testimonials
ORDER BY created_at DESC
`)
}

func (r *postgresRepo) list(ctx context.Context, q string) ([]domain.Testimonial, error) {
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Testimonial
	for rows.Next() {
		var t domain.Testimonial
		if err := rows.Scan(&t.ID, &t.Author, &t.Body, &t.Rating, &t.IsApproved, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Approve(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE testimonials SET is_approved = true WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
