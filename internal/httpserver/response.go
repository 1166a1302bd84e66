package httpserver

import (
	"time"

	"github.com/shopspring/decimal"

	"bottlecraft/internal/configurator"
	"bottlecraft/internal/domain"
	"bottlecraft/internal/pricing"
	cartsvc "bottlecraft/internal/service/cart"
	catalogsvc "bottlecraft/internal/service/catalog"
	"bottlecraft/internal/upsell"
)

// Amounts go over the wire as fixed two-digit strings so clients never see
// float rounding.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type familyResponse struct {
	*domain.Family
	HasFitmentStep bool                         `json:"hasFitmentStep"`
	MetalUpcharge  string                       `json:"metalUpcharge"`
	Tiers          map[string][]tierRowResponse `json:"tiers"`
	// Closures shadows the embedded family field to add availability.
	Closures []closureResponse `json:"closures"`
}

type closureResponse struct {
	domain.Closure
	Available bool `json:"available"`
}

type tierRowResponse struct {
	Threshold int    `json:"threshold"`
	Label     string `json:"label"`
	UnitPrice string `json:"unitPrice"`
}

func toFamilyResponse(f *domain.Family) familyResponse {
	tiers := make(map[string][]tierRowResponse, len(f.Vessels))
	for i := range f.Vessels {
		v := &f.Vessels[i]
		tiers[v.ID] = toTierRows(pricing.Tiers(f.Pricing, v, nil))
	}
	closures := make([]closureResponse, 0, len(f.Closures))
	for _, c := range f.Closures {
		closures = append(closures, closureResponse{Closure: c, Available: c.Available()})
	}
	return familyResponse{
		Family:         f,
		HasFitmentStep: f.HasFitmentStep(),
		MetalUpcharge:  money(f.Pricing.MetalUpcharge),
		Tiers:          tiers,
		Closures:       closures,
	}
}

func toTierRows(rows []pricing.TierRow) []tierRowResponse {
	out := make([]tierRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, tierRowResponse{Threshold: r.Threshold, Label: r.Label, UnitPrice: money(r.UnitPrice)})
	}
	return out
}

type imageResponse struct {
	URL       string `json:"url"`
	Fallback  string `json:"fallback,omitempty"`
	Composite bool   `json:"composite"`
}

type priceResponse struct {
	Threshold int               `json:"threshold"`
	TierLabel string            `json:"tierLabel,omitempty"`
	BasePrice string            `json:"basePrice"`
	Upcharge  string            `json:"upcharge"`
	UnitPrice string            `json:"unitPrice"`
	Total     string            `json:"total"`
	Quantity  int               `json:"quantity"`
	NextTier  *nextTierResponse `json:"nextTier,omitempty"`
}

type nextTierResponse struct {
	Threshold int    `json:"threshold"`
	UnitPrice string `json:"unitPrice"`
	Savings   string `json:"savings"`
	UnitsAway int    `json:"unitsAway"`
}

type quoteResponse struct {
	SKU      string            `json:"sku"`
	Name     string            `json:"name"`
	Variant  string            `json:"variant"`
	Category string            `json:"category"`
	Image    imageResponse     `json:"image"`
	Price    *priceResponse    `json:"price"`
	Complete bool              `json:"complete"`
	Tiers    []tierRowResponse `json:"tiers"`
}

func toQuoteResponse(q catalogsvc.Quote) quoteResponse {
	return quoteResponse{
		SKU:      q.Line.SKU,
		Name:     q.Line.Name,
		Variant:  q.Line.Variant,
		Category: q.Line.Category,
		Image:    imageResponse(q.Line.Image),
		Price:    toPriceResponse(q.Line),
		Complete: q.Line.Complete,
		Tiers:    toTierRows(q.Tiers),
	}
}

// toPriceResponse is nil for an unpriced selection so clients do not render
// it as free.
func toPriceResponse(line configurator.LineItem) *priceResponse {
	p := line.Price
	if !p.Priced() {
		return nil
	}
	out := &priceResponse{
		Threshold: p.Threshold,
		TierLabel: p.TierLabel,
		BasePrice: money(p.BasePrice),
		Upcharge:  money(p.Upcharge),
		UnitPrice: money(p.UnitPrice),
		Total:     money(p.Total),
		Quantity:  p.Quantity,
	}
	if p.NextTier != nil {
		out.NextTier = &nextTierResponse{
			Threshold: p.NextTier.Threshold,
			UnitPrice: money(p.NextTier.UnitPrice),
			Savings:   money(p.NextTier.Savings),
			UnitsAway: p.NextTier.UnitsAway,
		}
	}
	return out
}

type productResponse struct {
	Key         string   `json:"key"`
	SKU         string   `json:"sku"`
	Name        string   `json:"name"`
	Variant     string   `json:"variant,omitempty"`
	Category    string   `json:"category,omitempty"`
	Description string   `json:"description,omitempty"`
	Price       string   `json:"price"`
	Images      []string `json:"images"`
}

func toProductResponse(p domain.Product) productResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return productResponse{
		Key:         p.Key,
		SKU:         p.SKU,
		Name:        p.Name,
		Variant:     p.Variant,
		Category:    p.Category,
		Description: p.Description,
		Price:       money(p.Price),
		Images:      images,
	}
}

type cartResponse struct {
	ID          string               `json:"id"`
	Currency    string               `json:"currency"`
	LineItems   []lineItemResponse   `json:"lineItems"`
	TotalItems  int                  `json:"totalItems"`
	Subtotal    string               `json:"subtotal"`
	Shipping    shippingResponse     `json:"shipping"`
	Suggestions []suggestionResponse `json:"suggestions"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

type lineItemResponse struct {
	Index     int    `json:"index"`
	Key       string `json:"key"`
	SKU       string `json:"sku,omitempty"`
	Name      string `json:"name"`
	Variant   string `json:"variant,omitempty"`
	Category  string `json:"category,omitempty"`
	Image     string `json:"image,omitempty"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	Total     string `json:"total"`
}

type shippingResponse struct {
	Threshold string  `json:"threshold"`
	Progress  float64 `json:"progress"`
	Remaining string  `json:"remaining"`
	Qualified bool    `json:"qualified"`
}

type suggestionResponse struct {
	SKU    string `json:"sku"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
	Price  string `json:"price"`
	Image  string `json:"image,omitempty"`
}

func toCartResponse(s cartsvc.Summary) cartResponse {
	c := s.Cart
	lines := make([]lineItemResponse, 0, len(c.Lines))
	for i, l := range c.Lines {
		lines = append(lines, lineItemResponse{
			Index:     i,
			Key:       l.Key,
			SKU:       l.SKU,
			Name:      l.Name,
			Variant:   l.Variant,
			Category:  l.Category,
			Image:     l.Image,
			UnitPrice: money(l.UnitPrice),
			Quantity:  l.Quantity,
			Total:     money(l.Total()),
		})
	}
	return cartResponse{
		ID:         c.ID,
		Currency:   c.Currency,
		LineItems:  lines,
		TotalItems: s.TotalItems,
		Subtotal:   money(s.Subtotal),
		Shipping: shippingResponse{
			Threshold: money(s.Shipping.Threshold),
			Progress:  s.Shipping.Progress,
			Remaining: money(s.Shipping.Remaining),
			Qualified: s.Shipping.Qualified,
		},
		Suggestions: toSuggestions(s.Suggestions),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toSuggestions(in []upsell.Suggestion) []suggestionResponse {
	out := make([]suggestionResponse, 0, len(in))
	for _, s := range in {
		out = append(out, suggestionResponse{
			SKU:    s.SKU,
			Name:   s.Name,
			Reason: s.Reason,
			Price:  money(s.Price),
			Image:  s.Image,
		})
	}
	return out
}
