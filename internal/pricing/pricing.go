// Package pricing computes cart totals. The math is pure and exact: sums are
// kept as decimals with no intermediate rounding, display formatting is the
// caller's concern.
package pricing

import (
	"github.com/shopspring/decimal"

	"todecor/internal/cart"
)

// DefaultTaxRate is the 19% TVA applied to every order. The admin-editable
// tax_rate in website_settings is display metadata and is deliberately not
// consulted here.
var DefaultTaxRate = decimal.RequireFromString("0.19")

// Totals is the derived money view of a cart.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	ItemCount  int             `json:"item_count"`
}

// Engine computes totals at a fixed tax rate.
type Engine struct {
	rate decimal.Decimal
}

// New returns an engine at DefaultTaxRate.
func New() *Engine {
	return WithRate(DefaultTaxRate)
}

// WithRate returns an engine at the given rate.
func WithRate(rate decimal.Decimal) *Engine {
	return &Engine{rate: rate}
}

// Totals folds the lines into subtotal, tax, grand total and item count.
// An empty cart yields all zeros.
func (e *Engine) Totals(lines []cart.Line) Totals {
	subtotal := decimal.Zero
	count := 0
	for _, l := range lines {
		subtotal = subtotal.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		count += l.Quantity
	}
	tax := subtotal.Mul(e.rate)
	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		GrandTotal: subtotal.Add(tax),
		ItemCount:  count,
	}
}
