package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartLine struct {
	Key       string          `json:"key"`
	SKU       string          `json:"sku,omitempty"`
	Name      string          `json:"name"`
	Variant   string          `json:"variant,omitempty"`
	Category  string          `json:"category,omitempty"`
	Image     string          `json:"image,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

func (l CartLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is a point-in-time snapshot of a shopper's cart session.
type Cart struct {
	ID        string     `json:"id"`
	Currency  string     `json:"currency"`
	Lines     []CartLine `json:"lineItems"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
