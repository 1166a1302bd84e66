// Package cart merges items into an ordered list of lines and derives the
// totals shown in the cart drawer.
package cart

import (
	"github.com/shopspring/decimal"

	"bottlecraft/internal/domain"
)

// Cart is an ordered list of lines. It is not safe for concurrent use.
type Cart struct {
	lines []domain.CartLine
}

func New() *Cart {
	return &Cart{}
}

// FromLines rebuilds a cart from previously captured lines.
func FromLines(lines []domain.CartLine) *Cart {
	c := &Cart{lines: make([]domain.CartLine, len(lines))}
	copy(c.lines, lines)
	return c
}

// AddItem merges quantity into the first matching line or appends a new one,
// and returns the index of the affected line. A merge only adds quantity: the
// existing line keeps its price and image.
func (c *Cart) AddItem(item Item, quantity int) (int, error) {
	if quantity <= 0 {
		return -1, domain.ErrInvalidQuantity
	}
	for i := range c.lines {
		if sameLine(c.lines[i], item) {
			c.lines[i].Quantity += quantity
			return i, nil
		}
	}
	c.lines = append(c.lines, domain.CartLine{
		Key:       item.Key(),
		SKU:       item.SKU(),
		Name:      item.Name(),
		Variant:   item.Variant(),
		Category:  item.Category(),
		Image:     item.DisplayImage(),
		UnitPrice: item.UnitPrice(),
		Quantity:  quantity,
	})
	return len(c.lines) - 1, nil
}

// sameLine applies the merge rules in order: equal non-empty SKUs, then equal
// non-empty name and variant pairs.
func sameLine(line domain.CartLine, item Item) bool {
	if line.SKU != "" && item.SKU() != "" && line.SKU == item.SKU() {
		return true
	}
	if line.Name == "" || line.Variant == "" || item.Name() == "" || item.Variant() == "" {
		return false
	}
	return line.Name == item.Name() && line.Variant == item.Variant()
}

func (c *Cart) RemoveItem(index int) error {
	if index < 0 || index >= len(c.lines) {
		return domain.ErrLineNotFound
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return nil
}

// UpdateQuantity sets the line quantity as is; tier prices are not
// recalculated. Zero removes the line.
func (c *Cart) UpdateQuantity(index, quantity int) error {
	if index < 0 || index >= len(c.lines) {
		return domain.ErrLineNotFound
	}
	if quantity < 0 {
		return domain.ErrInvalidQuantity
	}
	if quantity == 0 {
		return c.RemoveItem(index)
	}
	c.lines[index].Quantity = quantity
	return nil
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) TotalItems() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.Total())
	}
	return sum
}

// Shipping reports progress toward the free-shipping threshold.
type Shipping struct {
	Threshold decimal.Decimal `json:"threshold"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	// Progress is subtotal/threshold clamped to [0, 1].
	Progress  float64         `json:"progress"`
	Remaining decimal.Decimal `json:"remaining"`
	Qualified bool            `json:"qualified"`
}

func (c *Cart) ShippingProgress(threshold decimal.Decimal) Shipping {
	subtotal := c.Subtotal()
	s := Shipping{
		Threshold: threshold,
		Subtotal:  subtotal,
		Remaining: decimal.Max(threshold.Sub(subtotal), decimal.Zero),
	}
	if !threshold.IsPositive() {
		s.Progress = 1
		s.Qualified = true
		return s
	}
	ratio := subtotal.Div(threshold)
	switch {
	case ratio.GreaterThanOrEqual(decimal.NewFromInt(1)):
		s.Progress = 1
	case ratio.IsNegative():
		s.Progress = 0
	default:
		s.Progress = ratio.InexactFloat64()
	}
	s.Qualified = s.Remaining.IsZero()
	return s
}
