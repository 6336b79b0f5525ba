package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"todecor/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products by slug.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// Run parses CSV rows and upserts one product per row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		p, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if p == nil {
			continue
		}
		if _, err := i.productRepo.Upsert(ctx, *p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.Slug, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*domain.Product, error) {
	slug := pick(record, index, "slug")
	name := pick(record, index, "name")
	if slug == "" && name == "" {
		return nil, nil
	}
	if slug == "" || name == "" {
		return nil, fmt.Errorf("invalid product row (missing name or slug) for name=%q slug=%q", name, slug)
	}

	priceStr := pick(record, index, "price")
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q for slug %q", priceStr, slug)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("negative price for slug %q", slug)
	}

	stock := 0
	if s := pick(record, index, "stock_quantity"); s != "" {
		stock, err = strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid stock %q for slug %q", s, slug)
		}
	}

	p := &domain.Product{
		Name:          name,
		Slug:          slug,
		Description:   pick(record, index, "description"),
		Price:         price,
		Category:      pick(record, index, "category"),
		Material:      pick(record, index, "material"),
		Color:         pick(record, index, "color"),
		StockQuantity: stock,
		ImageURL:      pick(record, index, "image_url"),
		IsPopular:     strings.EqualFold(pick(record, index, "is_popular"), "true"),
	}
	if sizes := pick(record, index, "size_options"); sizes != "" {
		for _, s := range strings.Split(sizes, ";") {
			if s = strings.TrimSpace(s); s != "" {
				p.SizeOptions = append(p.SizeOptions, s)
			}
		}
	}
	if p.ImageURL != "" {
		p.GalleryURLs = []string{p.ImageURL}
	}
	return p, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
