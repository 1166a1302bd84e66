package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	cartengine "bottlecraft/internal/cart"
	"bottlecraft/internal/configurator"
	"bottlecraft/internal/domain"
	"bottlecraft/internal/logging"
	"bottlecraft/internal/preview"
	cartrepo "bottlecraft/internal/repository/cart"
	"bottlecraft/internal/upsell"
)

type Service struct {
	repo         cartRepo
	catalog      catalogReader
	previews     *preview.Resolver
	advisor      *upsell.Advisor
	freeShipping decimal.Decimal
	currency     string
	logger       *zap.Logger
}

type cartRepo interface {
	Create(ctx context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	Update(ctx context.Context, id string, fn cartrepo.MutateFunc) (*domain.Cart, error)
	Delete(ctx context.Context, id string) error
}

type catalogReader interface {
	Family(key string) (*domain.Family, error)
	Product(keyOrSKU string) (*domain.Product, error)
}

type Options struct {
	FreeShippingThreshold decimal.Decimal
	Currency              string
}

func New(repo cartrepo.Repository, catalog catalogReader, previews *preview.Resolver, opts Options, logger *zap.Logger) *Service {
	currency := opts.Currency
	if currency == "" {
		currency = "USD"
	}
	return &Service{
		repo:         repo,
		catalog:      catalog,
		previews:     previews,
		advisor:      upsell.NewAdvisor(catalog),
		freeShipping: opts.FreeShippingThreshold,
		currency:     currency,
		logger:       logging.OrNop(logger),
	}
}

type CreateInput struct {
	Currency string `json:"currency"`
}

type UpdateInput struct {
	Actions []UpdateAction `json:"actions"`
}

// UpdateAction is one cart mutation. Which fields apply depends on Action:
// addLineItem, addConfiguredItem, changeLineItemQuantity or removeLineItem.
type UpdateAction struct {
	Action string `json:"action"`

	ProductKey string            `json:"productKey,omitempty"`
	SKU        string            `json:"sku,omitempty"`
	Name       string            `json:"name,omitempty"`
	Variant    string            `json:"variant,omitempty"`
	Category   string            `json:"category,omitempty"`
	Image      string            `json:"image,omitempty"`
	Price      *cartengine.Price `json:"price,omitempty"`

	Family  string `json:"family,omitempty"`
	Vessel  string `json:"vessel,omitempty"`
	Fitment string `json:"fitment,omitempty"`
	Closure string `json:"closure,omitempty"`

	Index    *int `json:"index,omitempty"`
	Quantity int  `json:"quantity,omitempty"`
}

// Summary is a cart with every derived value the cart drawer renders.
type Summary struct {
	Cart        *domain.Cart        `json:"cart"`
	TotalItems  int                 `json:"totalItems"`
	Subtotal    decimal.Decimal     `json:"subtotal"`
	Shipping    cartengine.Shipping `json:"shipping"`
	Suggestions []upsell.Suggestion `json:"suggestions"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Cart, error) {
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = s.currency
	}
	if len(currency) != 3 {
		return nil, fmt.Errorf("%w: currency must be a 3-letter code", domain.ErrInvalidInput)
	}
	c, err := s.repo.Create(ctx, cartrepo.CreateCartInput{Currency: currency})
	if err != nil {
		return nil, err
	}
	s.logger.Info("cart created", zap.String("cart_id", c.ID), zap.String("currency", currency))
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Cart, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Summarize derives totals, shipping progress and suggestions for a cart.
func (s *Service) Summarize(c *domain.Cart) Summary {
	engine := cartengine.FromLines(c.Lines)
	return Summary{
		Cart:        c,
		TotalItems:  engine.TotalItems(),
		Subtotal:    engine.Subtotal(),
		Shipping:    engine.ShippingProgress(s.freeShipping),
		Suggestions: s.advisor.Suggest(c.Lines),
	}
}

func (s *Service) Summary(ctx context.Context, id string) (Summary, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Summary{}, err
	}
	return s.Summarize(c), nil
}

func (s *Service) Suggestions(ctx context.Context, id string) ([]upsell.Suggestion, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.advisor.Suggest(c.Lines), nil
}

// Update applies every action in order. Either all actions apply or none do.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Cart, error) {
	if len(in.Actions) == 0 {
		return nil, fmt.Errorf("%w: actions required", domain.ErrInvalidInput)
	}
	mutations := make([]cartrepo.MutateFunc, 0, len(in.Actions))
	for _, action := range in.Actions {
		fn, err := s.mutation(action)
		if err != nil {
			return nil, err
		}
		mutations = append(mutations, fn)
	}

	updated, err := s.repo.Update(ctx, id, func(c *cartengine.Cart) error {
		for _, fn := range mutations {
			if err := fn(c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("cart update rejected", zap.String("cart_id", id), zap.Error(err))
		}
		return nil, err
	}
	s.logger.Info("cart updated",
		zap.String("cart_id", id),
		zap.Int("actions", len(in.Actions)),
		zap.Int("lines", len(updated.Lines)),
	)
	return updated, nil
}

func (s *Service) mutation(action UpdateAction) (cartrepo.MutateFunc, error) {
	switch strings.ToLower(strings.TrimSpace(action.Action)) {
	case "addlineitem":
		item, err := s.catalogItem(action)
		if err != nil {
			return nil, err
		}
		if action.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		return func(c *cartengine.Cart) error {
			_, err := c.AddItem(item, action.Quantity)
			return err
		}, nil
	case "addconfigureditem":
		session, err := s.configure(action)
		if err != nil {
			return nil, err
		}
		return func(c *cartengine.Cart) error {
			_, err := session.AddToCart(c)
			return err
		}, nil
	case "changelineitemquantity":
		if action.Index == nil {
			return nil, fmt.Errorf("%w: index required", domain.ErrInvalidInput)
		}
		if action.Quantity < 0 {
			return nil, domain.ErrInvalidQuantity
		}
		idx, qty := *action.Index, action.Quantity
		return func(c *cartengine.Cart) error {
			return c.UpdateQuantity(idx, qty)
		}, nil
	case "removelineitem":
		if action.Index == nil {
			return nil, fmt.Errorf("%w: index required", domain.ErrInvalidInput)
		}
		idx := *action.Index
		return func(c *cartengine.Cart) error {
			return c.RemoveItem(idx)
		}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported action %q", domain.ErrInvalidInput, action.Action)
	}
}

// catalogItem resolves a ready-made product by key or SKU. Items unknown to
// the catalog are accepted as described by the caller.
func (s *Service) catalogItem(action UpdateAction) (cartengine.Item, error) {
	for _, ref := range []string{action.ProductKey, action.SKU} {
		ref = strings.TrimSpace(ref)
		if ref == "" || s.catalog == nil {
			continue
		}
		p, err := s.catalog.Product(ref)
		if err == nil {
			return cartengine.CatalogProduct{Product: *p}, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	if strings.TrimSpace(action.Name) == "" {
		if ref := strings.TrimSpace(action.ProductKey + action.SKU); ref != "" {
			return nil, fmt.Errorf("product %q: %w", ref, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: productKey, sku or name required", domain.ErrInvalidInput)
	}

	p := domain.Product{
		SKU:      strings.TrimSpace(action.SKU),
		Name:     strings.TrimSpace(action.Name),
		Variant:  strings.TrimSpace(action.Variant),
		Category: strings.TrimSpace(action.Category),
	}
	if action.Price != nil {
		p.Price = action.Price.Decimal
	}
	if action.Image != "" {
		p.Images = []string{action.Image}
	}
	return cartengine.CatalogProduct{Product: p}, nil
}

func (s *Service) configure(action UpdateAction) (*configurator.Session, error) {
	if s.catalog == nil {
		return nil, errors.New("catalog unavailable")
	}
	fam, err := s.catalog.Family(action.Family)
	if err != nil {
		return nil, fmt.Errorf("family %q: %w", action.Family, err)
	}
	session := configurator.New(fam, s.previews)
	if err := session.Apply(configurator.Choices{
		Vessel:   action.Vessel,
		Fitment:  action.Fitment,
		Closure:  action.Closure,
		Quantity: action.Quantity,
	}); err != nil {
		return nil, err
	}
	return session, nil
}

// ItemInput describes a ready-made product by catalog key or SKU, or an
// ad hoc item by name and price.
type ItemInput struct {
	ProductKey string            `json:"productKey"`
	SKU        string            `json:"sku"`
	Name       string            `json:"name"`
	Variant    string            `json:"variant"`
	Category   string            `json:"category"`
	Image      string            `json:"image"`
	Price      *cartengine.Price `json:"price"`
	Quantity   int               `json:"quantity"`
}

// ConfiguredInput is a configurator selection for one family.
type ConfiguredInput struct {
	Family string `json:"family"`
	configurator.Choices
}

func (s *Service) AddProduct(ctx context.Context, id string, in ItemInput) (*domain.Cart, error) {
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	return s.Update(ctx, id, UpdateInput{Actions: []UpdateAction{{
		Action:     "addLineItem",
		ProductKey: in.ProductKey,
		SKU:        in.SKU,
		Name:       in.Name,
		Variant:    in.Variant,
		Category:   in.Category,
		Image:      in.Image,
		Price:      in.Price,
		Quantity:   in.Quantity,
	}}})
}

func (s *Service) AddConfigured(ctx context.Context, id string, in ConfiguredInput) (*domain.Cart, error) {
	return s.Update(ctx, id, UpdateInput{Actions: []UpdateAction{{
		Action:   "addConfiguredItem",
		Family:   in.Family,
		Vessel:   in.Vessel,
		Fitment:  in.Fitment,
		Closure:  in.Closure,
		Quantity: in.Quantity,
	}}})
}

func (s *Service) ChangeQuantity(ctx context.Context, id string, index, quantity int) (*domain.Cart, error) {
	return s.Update(ctx, id, UpdateInput{Actions: []UpdateAction{{
		Action:   "changeLineItemQuantity",
		Index:    &index,
		Quantity: quantity,
	}}})
}

func (s *Service) Remove(ctx context.Context, id string, index int) (*domain.Cart, error) {
	return s.Update(ctx, id, UpdateInput{Actions: []UpdateAction{{
		Action: "removeLineItem",
		Index:  &index,
	}}})
}
