package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. An order is inserted as draft and flipped to pending only
// once every line has been written; draft headers are the trace left by a
// submission that failed partway.
const (
	OrderStatusDraft     = "draft"
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Payment methods the storefront records. No gateway is involved.
const (
	PaymentTransfer = "transfer"
	PaymentCash     = "cash"
)

// Order is the order header owned by the backend store.
type Order struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"user_id"`
	OrderNumber        string          `json:"order_number"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	VATAmount          decimal.Decimal `json:"vat_amount"`
	Status             string          `json:"status"`
	PaymentMethod      string          `json:"payment_method"`
	DeliveryAddress    string          `json:"delivery_address"`
	DeliveryCity       string          `json:"delivery_city"`
	DeliveryPostalCode string          `json:"delivery_postal_code"`
	Notes              string          `json:"notes,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	Lines              []OrderLine     `json:"items,omitempty"`
}

// OrderLine snapshots one cart line at submission time.
type OrderLine struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Size      string          `json:"selected_size,omitempty"`
	Color     string          `json:"selected_color,omitempty"`
}
