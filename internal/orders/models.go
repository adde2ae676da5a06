package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the ledger's view of a product: current stock plus the
// name/price used for order-time snapshots.
type Product struct {
	ID        string
	Name      string
	Stock     int
	UnitPrice decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Order struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Items     []OrderItem     `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// OrderItem snapshots name and unit price at creation time so later
// product edits never change historical orders.
type OrderItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Qty         int             `json:"qty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type ItemInput struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

func newItem(p Product, qty int) OrderItem {
	return OrderItem{
		ProductID:   p.ID,
		ProductName: p.Name,
		Qty:         qty,
		UnitPrice:   p.UnitPrice,
		Subtotal:    p.UnitPrice.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func orderTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}
	return total
}
