package settings

import (
	"context"

	"todecor/internal/domain"
)

// Repository reads and writes the single website_settings row.
type Repository interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, s domain.Settings) (*domain.Settings, error)
}
