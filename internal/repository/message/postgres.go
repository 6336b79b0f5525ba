package message

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

func (r *postgresRepo) Create(ctx context.Context, m domain.Message) (*domain.Message, error) {
	const q = `
INSERT INTO messages (name, email, phone, subject, message)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text, name, email, phone, subject, message, is_read, created_at
`
	var out domain.Message
	if err := r.pool.QueryRow(ctx, q, m.Name, m.Email, m.Phone, m.Subject, m.Body).Scan(
		&out.ID, &out.Name, &out.Email, &out.Phone, &out.Subject, &out.Body, &out.IsRead, &out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Message, error) {
	const q = `
SELECT id::text, name, email, phone, subject, message, is_read, created_at
FROM messages
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Body, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *postgresRepo) MarkRead(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE messages SET is_read = true WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
