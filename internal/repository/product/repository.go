package product

import (
	"context"

	"todecor/internal/domain"
)

// ListFilter narrows a catalog listing. Zero values mean no filtering.
type ListFilter struct {
	Category    string
	PopularOnly bool
}

type Repository interface {
	List(ctx context.Context, f ListFilter) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	// Upsert inserts or replaces by slug; the importer and seeder use it.
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
