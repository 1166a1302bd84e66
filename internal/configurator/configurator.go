// Package configurator holds the state of one "build your own bottle" session
// and turns a complete selection into a priced cart item.
package configurator

import (
	"errors"
	"fmt"
	"strings"

	"bottlecraft/internal/cart"
	"bottlecraft/internal/domain"
	"bottlecraft/internal/preview"
	"bottlecraft/internal/pricing"
	"bottlecraft/internal/sku"
)

// Selection is the set of choices made so far.
type Selection struct {
	Vessel   *domain.Vessel
	Fitment  *domain.Fitment
	Closure  *domain.Closure
	Quantity int
}

// Complete reports whether every required step has a choice.
func (s Selection) Complete(family *domain.Family) bool {
	if s.Vessel == nil || s.Closure == nil || s.Quantity < 1 {
		return false
	}
	return len(family.Fitments) == 0 || s.Fitment != nil
}

// LineItem is the priced, identifiable preview of the current selection.
type LineItem struct {
	SKU      string         `json:"sku"`
	Name     string         `json:"name"`
	Variant  string         `json:"variant"`
	Category string         `json:"category"`
	Image    preview.Image  `json:"image"`
	Price    pricing.Result `json:"price"`
	Complete bool           `json:"complete"`
}

// Item converts the line into a cart item carrying the locked-in unit price.
func (l LineItem) Item() cart.ConfiguredProduct {
	return cart.NewConfiguredProduct(l.SKU, l.Name, l.Variant, l.Category, l.Image.URL, l.Price.UnitPrice)
}

type Session struct {
	family   *domain.Family
	previews *preview.Resolver
	sel      Selection
}

// New starts a session for family with quantity 1. A family with a single
// fitment has it preselected.
func New(family *domain.Family, previews *preview.Resolver) *Session {
	if previews == nil {
		previews = preview.NewResolver("")
	}
	s := &Session{family: family, previews: previews}
	s.Reset()
	return s
}

func (s *Session) Family() *domain.Family {
	return s.family
}

func (s *Session) Selection() Selection {
	return s.sel
}

// Reset clears every choice but keeps the family.
func (s *Session) Reset() {
	s.sel = Selection{Quantity: 1}
	if len(s.family.Fitments) == 1 {
		s.sel.Fitment = &s.family.Fitments[0]
	}
}

func (s *Session) ChooseVessel(id string) error {
	v, ok := s.family.Vessel(id)
	if !ok {
		return domain.ErrNotFound
	}
	s.sel.Vessel = v
	return nil
}

func (s *Session) ChooseFitment(id string) error {
	f, ok := s.family.Fitment(id)
	if !ok {
		return domain.ErrNotFound
	}
	s.sel.Fitment = f
	return nil
}

func (s *Session) ChooseClosure(id string) error {
	c, ok := s.family.Closure(id)
	if !ok {
		return domain.ErrNotFound
	}
	if !c.Available() {
		return domain.ErrUnavailable
	}
	s.sel.Closure = c
	return nil
}

func (s *Session) SetQuantity(n int) error {
	if n < 1 {
		return domain.ErrInvalidQuantity
	}
	s.sel.Quantity = n
	return nil
}

// Quote resolves SKU, preview and price for the current selection. Missing
// choices yield empty fields rather than an error.
func (s *Session) Quote() LineItem {
	sel := s.sel
	price := pricing.Quote(s.family.Pricing, sel.Vessel, sel.Fitment, sel.Quantity)
	return LineItem{
		SKU:      sku.Resolve(s.family, sel.Vessel, sel.Fitment, sel.Closure),
		Name:     s.family.Name,
		Variant:  VariantLabel(sel),
		Category: s.family.Category,
		Image:    s.previews.Resolve(s.family, sel.Vessel, sel.Fitment, sel.Closure),
		Price:    price,
		Complete: sel.Complete(s.family) && price.Priced(),
	}
}

// AddToCart adds the quoted selection to c and resets the session. Incomplete
// or unpriced selections are refused and leave the session untouched.
func (s *Session) AddToCart(c *cart.Cart) (LineItem, error) {
	line := s.Quote()
	if !line.Complete {
		return line, domain.ErrIncompleteSelection
	}
	if _, err := c.AddItem(line.Item(), s.sel.Quantity); err != nil {
		return line, err
	}
	s.Reset()
	return line, nil
}

// VariantLabel names the chosen components, e.g. "Amber / Metal Roller / Gold Cap".
func VariantLabel(sel Selection) string {
	var parts []string
	if sel.Vessel != nil {
		parts = append(parts, sel.Vessel.Name)
	}
	if sel.Fitment != nil {
		parts = append(parts, sel.Fitment.Name)
	}
	if sel.Closure != nil {
		parts = append(parts, sel.Closure.Name)
	}
	return strings.Join(parts, " / ")
}

// Choices names components by id, as received from a client.
type Choices struct {
	Vessel   string `json:"vessel"`
	Fitment  string `json:"fitment,omitempty"`
	Closure  string `json:"closure"`
	Quantity int    `json:"quantity"`
}

// Apply selects every non-empty choice. Empty ids and a zero quantity keep
// the current selection so a partial choice can still be quoted.
func (s *Session) Apply(c Choices) error {
	if c.Vessel != "" {
		if err := s.ChooseVessel(c.Vessel); err != nil {
			return choiceErr("vessel", c.Vessel, err)
		}
	}
	if c.Fitment != "" {
		if err := s.ChooseFitment(c.Fitment); err != nil {
			return choiceErr("fitment", c.Fitment, err)
		}
	}
	if c.Closure != "" {
		if err := s.ChooseClosure(c.Closure); err != nil {
			return choiceErr("closure", c.Closure, err)
		}
	}
	if c.Quantity != 0 {
		return s.SetQuantity(c.Quantity)
	}
	return nil
}

func choiceErr(kind, id string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: unknown %s %q", domain.ErrInvalidInput, kind, id)
	}
	return fmt.Errorf("%s %q: %w", kind, id, err)
}
