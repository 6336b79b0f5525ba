package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Price is the current list price; cart lines
// snapshot it at add time and never re-read it.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category"`
	Material      string          `json:"material,omitempty"`
	Color         string          `json:"color,omitempty"`
	StockQuantity int             `json:"stock_quantity"`
	ImageURL      string          `json:"image_url"`
	GalleryURLs   []string        `json:"gallery_urls,omitempty"`
	SizeOptions   []string        `json:"size_options,omitempty"`
	IsPopular     bool            `json:"is_popular"`
	CreatedAt     time.Time       `json:"created_at"`
}
