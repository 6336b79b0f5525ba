package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Name        string
	Slug        string
	Description string
	Price       string
	Category    string
	Material    string
	Color       string
	Stock       int
	Sizes       []string
	Popular     bool
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	if err := ensureSettings(ctx, pool); err != nil {
		return fmt.Errorf("ensure settings: %w", err)
	}

	products := []productSeed{
		{
			Name:        "Vase en céramique",
			Slug:        "vase-ceramique",
			Description: "Vase artisanal en céramique émaillée",
			Price:       "100.00",
			Category:    "decoration",
			Material:    "céramique",
			Color:       "terracotta",
			Stock:       12,
			Sizes:       []string{"S", "M", "L"},
			Popular:     true,
		},
		{
			Name:        "Lampe en bois d'olivier",
			Slug:        "lampe-bois-olivier",
			Description: "Lampe de table tournée à la main",
			Price:       "145.50",
			Category:    "luminaires",
			Material:    "bois d'olivier",
			Color:       "naturel",
			Stock:       6,
		},
		{
			Name:        "Tapis berbère",
			Slug:        "tapis-berbere",
			Description: "Tapis en laine tissé main",
			Price:       "320.00",
			Category:    "textiles",
			Material:    "laine",
			Color:       "écru",
			Stock:       3,
			Sizes:       []string{"120x180", "160x230"},
			Popular:     true,
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
	}

	return nil
}

func ensureSettings(ctx context.Context, pool *pgxpool.Pool) error {
	const q = `
INSERT INTO website_settings (site_name, phone, email, address, currency, tax_rate)
SELECT 'ToDecor', '+216 70 000 000', 'contact@todecor.tn', 'Tunis, Tunisie', 'DT', 0.19
WHERE NOT EXISTS (SELECT 1 FROM website_settings)
`
	_, err := pool.Exec(ctx, q)
	return err
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (name, slug, description, price, category, material, color, stock_quantity, size_options, is_popular)
VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9, $10)
ON CONFLICT (slug) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    category = EXCLUDED.category,
    material = EXCLUDED.material,
    color = EXCLUDED.color,
    stock_quantity = EXCLUDED.stock_quantity,
    size_options = EXCLUDED.size_options,
    is_popular = EXCLUDED.is_popular
`
	sizes := p.Sizes
	if sizes == nil {
		sizes = []string{}
	}
	_, err := pool.Exec(ctx, q, p.Name, p.Slug, p.Description, p.Price, p.Category, p.Material, p.Color, p.Stock, sizes, p.Popular)
	return err
}
