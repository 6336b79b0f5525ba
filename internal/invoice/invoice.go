// Package invoice renders an order into a printable HTML invoice. Rendering
// is a pure function of the order and the company details.
package invoice

import (
	"bytes"
	"html/template"

	"github.com/shopspring/decimal"

	"todecor/internal/domain"
)

// Company is the seller block printed on the invoice header.
type Company struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

type lineView struct {
	Name      string
	Quantity  int
	UnitPrice string
	Total     string
}

type view struct {
	Order      domain.Order
	Company    Company
	Lines      []lineView
	Date       string
	Currency   string
	Subtotal   string
	Tax        string
	GrandTotal string
}

var tmpl = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Facture {{.Order.OrderNumber}}</title>
<style>
body { font-family: Arial, sans-serif; color: #333; }
.container { max-width: 900px; margin: 0 auto; padding: 20px; }
.header { display: flex; justify-content: space-between; margin-bottom: 40px; }
.company-name { font-size: 24px; font-weight: bold; margin-bottom: 10px; }
.invoice-title { font-size: 20px; font-weight: bold; margin-bottom: 5px; }
table { width: 100%; border-collapse: collapse; margin-bottom: 20px; }
th { background-color: #f5f5f5; padding: 10px; text-align: left; border-bottom: 2px solid #333; }
td { padding: 8px; border-bottom: 1px solid #e0e0e0; }
.num { text-align: right; }
.totals { text-align: right; margin-top: 20px; }
.grand-total { font-weight: bold; font-size: 18px; border-top: 2px solid #333; padding-top: 10px; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <div>
      <div class="company-name">{{.Company.Name}}</div>
      <p>{{.Company.Address}}<br/>Téléphone: {{.Company.Phone}}<br/>Email: {{.Company.Email}}</p>
    </div>
    <div>
      <div class="invoice-title">FACTURE</div>
      <p>N°: {{.Order.OrderNumber}}<br/>Date: {{.Date}}</p>
    </div>
  </div>

  <p><strong>Client</strong><br/>{{.Order.DeliveryAddress}}<br/>{{.Order.DeliveryCity}} {{.Order.DeliveryPostalCode}}</p>

  <table>
    <tr><th>Description</th><th>Quantité</th><th class="num">Prix unitaire</th><th class="num">Total</th></tr>
    {{range .Lines}}<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td class="num">{{.UnitPrice}}</td><td class="num">{{.Total}}</td></tr>
    {{end}}
  </table>

  <div class="totals">
    <p>Sous-total: {{.Subtotal}} {{.Currency}}</p>
    <p>TVA (19%): {{.Tax}} {{.Currency}}</p>
    <p class="grand-total">TOTAL: {{.GrandTotal}} {{.Currency}}</p>
  </div>

  <p style="margin-top: 40px; font-size: 12px; color: #666;">Merci de votre achat ! Cette facture est générée automatiquement.</p>
</div>
</body>
</html>
`))

// Render produces the invoice HTML for the order. Line names fall back to the
// product id when the caller has no catalog name for it.
func Render(order domain.Order, names map[string]string, company Company, currency string) (string, error) {
	lines := make([]lineView, 0, len(order.Lines))
	for _, l := range order.Lines {
		name := names[l.ProductID]
		if name == "" {
			name = l.ProductID
		}
		lines = append(lines, lineView{
			Name:      name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.StringFixed(2),
			Total:     l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).StringFixed(2),
		})
	}

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, view{
		Order:      order,
		Company:    company,
		Lines:      lines,
		Date:       order.CreatedAt.Format("02/01/2006"),
		Currency:   currency,
		Subtotal:   order.TotalAmount.StringFixed(2),
		Tax:        order.VATAmount.StringFixed(2),
		GrandTotal: order.TotalAmount.Add(order.VATAmount).StringFixed(2),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
