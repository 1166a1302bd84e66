package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	cartengine "bottlecraft/internal/cart"
	"bottlecraft/internal/domain"
	"bottlecraft/internal/preview"
	cartrepo "bottlecraft/internal/repository/cart"
)

type stubRepo struct {
	cart        *domain.Cart
	createErr   error
	getErr      error
	lastCreate  cartrepo.CreateCartInput
	updateCalls int
}

func (s *stubRepo) Create(_ context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error) {
	s.lastCreate = in
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.cart = &domain.Cart{ID: "cart-1", Currency: in.Currency}
	return s.cart, nil
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*domain.Cart, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.cart == nil || s.cart.ID != id {
		return nil, domain.ErrNotFound
	}
	return s.cart, nil
}

func (s *stubRepo) Update(_ context.Context, id string, fn cartrepo.MutateFunc) (*domain.Cart, error) {
	s.updateCalls++
	if s.cart == nil || s.cart.ID != id {
		return nil, domain.ErrNotFound
	}
	working := cartengine.FromLines(s.cart.Lines)
	if err := fn(working); err != nil {
		return nil, err
	}
	s.cart.Lines = working.Lines()
	return s.cart, nil
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	if s.cart == nil || s.cart.ID != id {
		return domain.ErrNotFound
	}
	s.cart = nil
	return nil
}

type stubCatalog struct {
	families map[string]*domain.Family
	products map[string]domain.Product
}

func (s stubCatalog) Family(key string) (*domain.Family, error) {
	f, ok := s.families[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return f, nil
}

func (s stubCatalog) Product(ref string) (*domain.Product, error) {
	for key, p := range s.products {
		if key == ref || p.SKU == ref {
			p := p
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testCatalog() stubCatalog {
	roller := &domain.Family{
		Key:      "roll-on",
		Name:     "10ml Roll-On Bottle",
		Category: "Roll-On Bottles",
		Vessels: []domain.Vessel{
			{ID: "amber", Name: "Amber", SKUPrefix: "RO10-AMB", ImageURL: "amber.png"},
		},
		Fitments: []domain.Fitment{
			{ID: "metal", Name: "Metal Roller", Category: domain.FitmentMetal, SKUCode: "MRL"},
			{ID: "plastic", Name: "Plastic Roller", Category: domain.FitmentPlastic, SKUCode: "PRL"},
		},
		Closures: []domain.Closure{
			{ID: "gold", Name: "Gold Cap", SKUCode: "GLD"},
			{ID: "rose", Name: "Rose Gold Cap", SKUCode: "RSG", OutOfStock: true},
		},
		Pricing: domain.PricingMatrix{
			MetalUpcharge: dec("0.10"),
			Tiers: map[string][]domain.Tier{
				"amber": {{Threshold: 1, Price: dec("0.90")}, {Threshold: 100, Price: dec("0.70")}},
			},
		},
	}
	return stubCatalog{
		families: map[string]*domain.Family{"roll-on": roller},
		products: map[string]domain.Product{
			"velvet-pouch": {Key: "velvet-pouch", SKU: "ACC-POUCH-VELVET", Name: "Velvet Pouch", Price: dec("1.25")},
		},
	}
}

func newService(repo *stubRepo) *Service {
	return New(repo, testCatalog(), preview.NewResolver("https://img.example/"), Options{
		FreeShippingThreshold: dec("75"),
		Currency:              "USD",
	}, nil)
}

func intPtr(v int) *int { return &v }

func TestServiceCreateDefaultsCurrency(t *testing.T) {
	repo := &stubRepo{}
	svc := newService(repo)

	c, err := svc.Create(context.Background(), CreateInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Currency != "USD" || repo.lastCreate.Currency != "USD" {
		t.Fatalf("expected USD cart, got %q", c.Currency)
	}

	if _, err := svc.Create(context.Background(), CreateInput{Currency: "euro"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestServiceUpdateRequiresActions(t *testing.T) {
	repo := &stubRepo{}
	svc := newService(repo)
	if _, err := svc.Update(context.Background(), "cart-1", UpdateInput{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if repo.updateCalls != 0 {
		t.Fatalf("repository should not be called")
	}
}

func TestServiceUpdateAddLineItemFromCatalog(t *testing.T) {
	repo := &stubRepo{}
	svc := newService(repo)
	_, _ = svc.Create(context.Background(), CreateInput{})

	updated, err := svc.Update(context.Background(), "cart-1", UpdateInput{Actions: []UpdateAction{
		{Action: "addLineItem", SKU: "ACC-POUCH-VELVET", Quantity: 1},
		{Action: "addLineItem", ProductKey: "velvet-pouch", Quantity: 2},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Lines) != 1 {
		t.Fatalf("expected merged line, got %d lines", len(updated.Lines))
	}
	if updated.Lines[0].Quantity != 3 || !updated.Lines[0].UnitPrice.Equal(dec("1.25")) {
		t.Fatalf("unexpected line: %+v", updated.Lines[0])
	}
}

func TestServiceUpdateAddLineItemAdHoc(t *testing.T) {
	repo := &stubRepo{}
	svc := newService(repo)
	_, _ = svc.Create(context.Background(), CreateInput{})

	price := cartengine.Price{Decimal: dec("4.50")}
	updated, err := svc.Update(context.Background(), "cart-1", UpdateInput{Actions: []UpdateAction{
		{Action: "addLineItem", Name: "Gift Box", Variant: "Large", Price: &price, Quantity: 2},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := updated.Lines[0].Total(); !got.Equal(dec("9")) {
		t.Fatalf("expected line total 9, got %s", got)
	}
}

func TestServiceUpdateAddLineItemValidation(t *testing.T) {
	repo := &stubRepo{}
	svc := newService(repo)
	_, _ = svc.Create(context.Background(), CreateInput{})

	cases := []struct {
		name   string
		action UpdateAction
		want   error
	}{
		{"nothing named", UpdateAction{Action: "addLineItem", Quantity: 1}, domain.ErrInvalidInput},
		{"unknown key", UpdateAction{Action: "addLineItem", ProductKey: "nope", Quantity: 1}, domain.ErrNotFound},
		{"zero quantity", UpdateAction{Action: "addLineItem", SKU: "ACC-POUCH-VELVET"}, domain.ErrInvalidQuantity},
		{"unknown action", UpdateAction{Action: "setShippingAddress"}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		_, err := svc.Update(context.Background(), "cart-1", UpdateInput{Actions: []UpdateAction{tc.action}})
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
	if repo.updateCalls != 0 {
		t.Fatalf("invalid actions must be rejected before touching the repository")
	}
}

func TestServiceUpdateAddConfiguredItem(t *testing.T) {
	repo := &stubRepo{}
	svc := newService(repo)
	_, _ = svc.Create(context.Background(), CreateInput{})

	updated, err := svc.Update(context.Background(), "cart-1", UpdateInput{Actions: []UpdateAction{
		{Action: "addConfiguredItem", Family: "roll-on", Vessel: "amber", Fitment: "metal", Closure: "gold", Quantity: 150},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	line := updated.Lines[0]
	if line.SKU != "RO10-AMBMRLGLD" {
		t.Fatalf("unexpected sku %q", line.SKU)
	}
	if line.Variant != "Amber / Metal Roller / Gold Cap" {
		t.Fatalf("unexpected variant %q", line.Variant)
	}
	if !line.UnitPrice.Equal(dec("0.80")) || line.Quantity != 150 {
		t.Fatalf("unexpected price/quantity: %s x %d", line.UnitPrice, line.Quantity)
	}
}

func TestServiceUpdateAddConfiguredItemRejected(t *testing.T) {
	repo := &stubRepo{}
	svc := newService(repo)
	_, _ = svc.Create(context.Background(), CreateInput{})

	cases := []struct {
		name   string
		action UpdateAction
		want   error
	}{
		{"unknown family", UpdateAction{Action: "addConfiguredItem", Family: "jar"}, domain.ErrNotFound},
		{"unknown vessel", UpdateAction{Action: "addConfiguredItem", Family: "roll-on", Vessel: "teal"}, domain.ErrInvalidInput},
		{"out of stock", UpdateAction{Action: "addConfiguredItem", Family: "roll-on", Vessel: "amber", Fitment: "metal", Closure: "rose"}, domain.ErrUnavailable},
		{"missing fitment", UpdateAction{Action: "addConfiguredItem", Family: "roll-on", Vessel: "amber", Closure: "gold"}, domain.ErrIncompleteSelection},
		{"bad quantity", UpdateAction{Action: "addConfiguredItem", Family: "roll-on", Vessel: "amber", Quantity: -1}, domain.ErrInvalidQuantity},
	}
	for _, tc := range cases {
		_, err := svc.Update(context.Background(), "cart-1", UpdateInput{Actions: []UpdateAction{tc.action}})
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
	if len(repo.cart.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(repo.cart.Lines))
	}
}

func TestServiceUpdateChangeAndRemove(t *testing.T) {
	repo := &stubRepo{}
	svc := newService(repo)
	_, _ = svc.Create(context.Background(), CreateInput{})
	_, err := svc.Update(context.Background(), "cart-1", UpdateInput{Actions: []UpdateAction{
		{Action: "addLineItem", SKU: "ACC-POUCH-VELVET", Quantity: 1},
		{Action: "addConfiguredItem", Family: "roll-on", Vessel: "amber", Fitment: "plastic", Closure: "gold", Quantity: 1},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.Update(context.Background(), "cart-1", UpdateInput{Actions: []UpdateAction{
		{Action: "changeLineItemQuantity", Index: intPtr(1), Quantity: 4},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Lines[1].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", updated.Lines[1].Quantity)
	}

	updated, err = svc.Update(context.Background(), "cart-1", UpdateInput{Actions: []UpdateAction{
		{Action: "changeLineItemQuantity", Index: intPtr(0), Quantity: 0},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Lines) != 1 || updated.Lines[0].SKU != "RO10-AMBPRLGLD" {
		t.Fatalf("expected only the roller line, got %+v", updated.Lines)
	}

	updated, err = svc.Update(context.Background(), "cart-1", UpdateInput{Actions: []UpdateAction{
		{Action: "removeLineItem", Index: intPtr(0)},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Lines) != 0 {
		t.Fatalf("expected empty cart")
	}
}

func TestServiceUpdateChangeLineItemValidation(t *testing.T) {
	repo := &stubRepo{}
	svc := newService(repo)
	_, _ = svc.Create(context.Background(), CreateInput{})

	if _, err := svc.Update(context.Background(), "cart-1", UpdateInput{Actions: []UpdateAction{
		{Action: "changeLineItemQuantity", Quantity: 1},
	}}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected index required, got %v", err)
	}
	if _, err := svc.Update(context.Background(), "cart-1", UpdateInput{Actions: []UpdateAction{
		{Action: "changeLineItemQuantity", Index: intPtr(0), Quantity: -2},
	}}); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
	if _, err := svc.Update(context.Background(), "cart-1", UpdateInput{Actions: []UpdateAction{
		{Action: "removeLineItem", Index: intPtr(3)},
	}}); !errors.Is(err, domain.ErrLineNotFound) {
		t.Fatalf("expected line not found, got %v", err)
	}
}

func TestServiceUpdateIsAllOrNothing(t *testing.T) {
	repo := &stubRepo{}
	svc := newService(repo)
	_, _ = svc.Create(context.Background(), CreateInput{})

	_, err := svc.Update(context.Background(), "cart-1", UpdateInput{Actions: []UpdateAction{
		{Action: "addLineItem", SKU: "ACC-POUCH-VELVET", Quantity: 1},
		{Action: "removeLineItem", Index: intPtr(5)},
	}})
	if !errors.Is(err, domain.ErrLineNotFound) {
		t.Fatalf("expected line not found, got %v", err)
	}
	if len(repo.cart.Lines) != 0 {
		t.Fatalf("first action should have been discarded")
	}
}

func TestServiceSummary(t *testing.T) {
	repo := &stubRepo{}
	svc := newService(repo)
	_, _ = svc.Create(context.Background(), CreateInput{})
	_, err := svc.Update(context.Background(), "cart-1", UpdateInput{Actions: []UpdateAction{
		{Action: "addConfiguredItem", Family: "roll-on", Vessel: "amber", Fitment: "plastic", Closure: "gold", Quantity: 50},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum, err := svc.Summary(context.Background(), "cart-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.TotalItems != 50 || !sum.Subtotal.Equal(dec("45")) {
		t.Fatalf("unexpected totals: %d items, %s", sum.TotalItems, sum.Subtotal)
	}
	if sum.Shipping.Qualified || !sum.Shipping.Remaining.Equal(dec("30")) {
		t.Fatalf("expected 30 remaining, got %s", sum.Shipping.Remaining)
	}
	// the gold cap lives in the configured variant, so no sprayer
	if len(sum.Suggestions) != 2 || sum.Suggestions[0].SKU != "ACC-POUCH-VELVET" || sum.Suggestions[1].SKU != "ACC-FUNNEL-SET" {
		t.Fatalf("unexpected suggestions: %+v", sum.Suggestions)
	}
	if sum.Suggestions[0].Name != "Velvet Pouch" {
		t.Fatalf("suggestion should carry the catalog name, got %q", sum.Suggestions[0].Name)
	}

	if _, err := svc.Summary(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceConvenienceMethods(t *testing.T) {
	repo := &stubRepo{}
	svc := newService(repo)
	ctx := context.Background()
	_, _ = svc.Create(ctx, CreateInput{})

	if _, err := svc.AddProduct(ctx, "cart-1", ItemInput{ProductKey: "velvet-pouch"}); err != nil {
		t.Fatalf("add product: %v", err)
	}
	in := ConfiguredInput{Family: "roll-on"}
	in.Vessel, in.Fitment, in.Closure, in.Quantity = "amber", "metal", "gold", 2
	if _, err := svc.AddConfigured(ctx, "cart-1", in); err != nil {
		t.Fatalf("add configured: %v", err)
	}
	c, err := svc.ChangeQuantity(ctx, "cart-1", 0, 3)
	if err != nil {
		t.Fatalf("change quantity: %v", err)
	}
	if len(c.Lines) != 2 || c.Lines[0].Quantity != 3 {
		t.Fatalf("unexpected lines: %+v", c.Lines)
	}
	c, err = svc.Remove(ctx, "cart-1", 1)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(c.Lines) != 1 || c.Lines[0].SKU != "ACC-POUCH-VELVET" {
		t.Fatalf("unexpected lines after remove: %+v", c.Lines)
	}
	if _, err := svc.Remove(ctx, "missing", 0); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
