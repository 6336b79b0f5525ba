package order

import (
	"context"

	"todecor/internal/domain"
)

type Repository interface {
	// CreateDraft inserts the order header in draft status. Lines are added
	// afterwards, one write per line, and MarkPending publishes the order
	// once every line has landed.
	CreateDraft(ctx context.Context, o domain.Order) (*domain.Order, error)
	AddLine(ctx context.Context, l domain.OrderLine) error
	MarkPending(ctx context.Context, orderID string) error

	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetForUser(ctx context.Context, id, userID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
