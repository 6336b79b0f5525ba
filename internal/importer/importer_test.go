package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"todecor/internal/domain"
)

type stubProductRepo struct {
	items []domain.Product
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.items = append(s.items, p)
	return &p, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `name,slug,description,price,category,material,color,stock_quantity,image_url,size_options,is_popular
Vase en céramique,vase-ceramique,Vase artisanal,100.00,decoration,céramique,terracotta,12,https://example.com/vase.jpg,S;M;L,true
Tapis berbère,tapis-berbere,Tapis laine,320.00,textiles,laine,écru,3,,,false
,,,,,,,,,,`

	repo := &stubProductRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 products imported, got %d", count)
	}

	first := repo.items[0]
	if first.Slug != "vase-ceramique" || first.Category != "decoration" || first.StockQuantity != 12 {
		t.Fatalf("unexpected product data: %+v", first)
	}
	if !first.Price.Equal(mustDec(t, "100.00")) {
		t.Fatalf("expected price 100.00, got %s", first.Price)
	}
	if len(first.SizeOptions) != 3 || first.SizeOptions[1] != "M" {
		t.Fatalf("expected size options S;M;L, got %v", first.SizeOptions)
	}
	if !first.IsPopular {
		t.Fatal("expected popular flag")
	}
	if len(first.GalleryURLs) != 1 {
		t.Fatalf("expected image url copied to gallery, got %v", first.GalleryURLs)
	}
}

func TestCSVImporter_BadPrice(t *testing.T) {
	csvData := `name,slug,price
Vase,vase,not-a-price`
	imp := NewCSVImporter(strings.NewReader(csvData), &stubProductRepo{})
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatal("expected price parse error")
	}
}

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}
