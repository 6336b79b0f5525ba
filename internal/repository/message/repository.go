package message

import (
	"context"

	"todecor/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, m domain.Message) (*domain.Message, error)
	List(ctx context.Context) ([]domain.Message, error)
	MarkRead(ctx context.Context, id string) error
}
