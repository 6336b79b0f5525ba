package order

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"todecor/internal/domain"
)

const orderColumns = `id::text, user_id::text, order_number, total_amount::text, vat_amount::text, status, payment_method, delivery_address, delivery_city, delivery_postal_code, notes, created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) CreateDraft(ctx context.Context, o domain.Order) (*domain.Order, error) {
	const q = `
INSERT INTO orders (user_id, order_number, total_amount, vat_amount, status, payment_method, delivery_address, delivery_city, delivery_postal_code, notes)
VALUES ($1, $2, $3::numeric, $4::numeric, $5, $6, $7, $8, $9, $10)
RETURNING ` + orderColumns
	row := r.pool.QueryRow(ctx, q,
		o.UserID, o.OrderNumber, o.TotalAmount.String(), o.VATAmount.String(),
		domain.OrderStatusDraft, o.PaymentMethod, o.DeliveryAddress, o.DeliveryCity,
		o.DeliveryPostalCode, o.Notes)
	return scanOrder(row)
}

func (r *postgresRepo) AddLine(ctx context.Context, l domain.OrderLine) error {
	const q = `
INSERT INTO order_items (order_id, product_id, quantity, unit_price, selected_size, selected_color)
VALUES ($1, $2, $3, $4::numeric, $5, $6)
`
	_, err := r.pool.Exec(ctx, q, l.OrderID, l.ProductID, l.Quantity, l.UnitPrice.String(), l.Size, l.Color)
	return err
}

func (r *postgresRepo) MarkPending(ctx context.Context, orderID string) error {
	const q = `
UPDATE orders
SET status = $2
WHERE id = $1 AND status = $3
`
	tag, err := r.pool.Exec(ctx, q, orderID, domain.OrderStatusPending, domain.OrderStatusDraft)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return r.withLines(ctx, row)
}

func (r *postgresRepo) GetForUser(ctx context.Context, id, userID string) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2`, id, userID)
	return r.withLines(ctx, row)
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) list(ctx context.Context, q string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *postgresRepo) withLines(ctx context.Context, row pgx.Row) (*domain.Order, error) {
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const q = `
SELECT id::text, order_id::text, product_id::text, quantity, unit_price::text, selected_size, selected_color
FROM order_items
WHERE order_id = $1
ORDER BY created_at, id
`
	rows, err := r.pool.Query(ctx, q, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.OrderLine
		var unitPrice string
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &unitPrice, &l.Size, &l.Color); err != nil {
			return nil, err
		}
		if l.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return o, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var total, vat string
	if err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.OrderNumber,
		&total,
		&vat,
		&o.Status,
		&o.PaymentMethod,
		&o.DeliveryAddress,
		&o.DeliveryCity,
		&o.DeliveryPostalCode,
		&o.Notes,
		&o.CreatedAt,
	); err != nil {
		return nil, err
	}
	var err error
	if o.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return nil, err
	}
	if o.VATAmount, err = decimal.NewFromString(vat); err != nil {
		return nil, err
	}
	return &o, nil
}
