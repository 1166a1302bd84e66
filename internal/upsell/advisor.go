package upsell

import (
	"bottlecraft/internal/domain"
)

type productLookup interface {
	Product(keyOrSKU string) (*domain.Product, error)
}

// Advisor runs Suggest and fills name, price and image from the catalog
// product sharing the suggestion's SKU, so accessory prices follow the
// catalog. Accessories missing from the catalog keep the built-in values.
type Advisor struct {
	products productLookup
}

func NewAdvisor(products productLookup) *Advisor {
	return &Advisor{products: products}
}

func (a *Advisor) Suggest(lines []domain.CartLine) []Suggestion {
	out := Suggest(lines)
	if a == nil || a.products == nil {
		return out
	}
	for i, s := range out {
		p, err := a.products.Product(s.SKU)
		if err != nil || p == nil {
			continue
		}
		if p.Name != "" {
			out[i].Name = p.Name
		}
		out[i].Price = p.Price
		if len(p.Images) > 0 {
			out[i].Image = p.Images[0]
		}
	}
	return out
}
