package testimonial

import (
	"context"

	"todecor/internal/domain"
)

type Repository interface {
	// Create stores a new testimonial unapproved; it stays hidden from the
	// public listing until an admin approves it.
	Create(ctx context.Context, t domain.Testimonial) (*domain.Testimonial, error)
	ListApproved(ctx context.Context) ([]domain.Testimonial, error)
	List(ctx context.Context) ([]domain.Testimonial, error)
	Approve(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
