package cart

import (
	"github.com/shopspring/decimal"

	"bottlecraft/internal/domain"
)

// Item is anything that can be added to a cart: a ready-made catalog product or
// an assembly built in the configurator.
type Item interface {
	// Key identifies the line: the SKU when known, otherwise name and variant.
	Key() string
	SKU() string
	Name() string
	Variant() string
	Category() string
	UnitPrice() decimal.Decimal
	DisplayImage() string
}

func lineKey(sku, name, variant string) string {
	if sku != "" {
		return sku
	}
	if variant == "" {
		return name
	}
	return name + " / " + variant
}

// CatalogProduct adapts a catalog product to Item.
type CatalogProduct struct {
	Product domain.Product
}

func (p CatalogProduct) Key() string {
	return lineKey(p.Product.SKU, p.Product.Name, p.Product.Variant)
}

func (p CatalogProduct) SKU() string                { return p.Product.SKU }
func (p CatalogProduct) Name() string               { return p.Product.Name }
func (p CatalogProduct) Variant() string            { return p.Product.Variant }
func (p CatalogProduct) Category() string           { return p.Product.Category }
func (p CatalogProduct) UnitPrice() decimal.Decimal { return p.Product.Price }

func (p CatalogProduct) DisplayImage() string {
	if len(p.Product.Images) == 0 {
		return ""
	}
	return p.Product.Images[0]
}

// ConfiguredProduct is a priced assembly from the configurator. The unit price
// is the tier price locked in at quote time.
type ConfiguredProduct struct {
	sku       string
	name      string
	variant   string
	category  string
	image     string
	unitPrice decimal.Decimal
}

func NewConfiguredProduct(sku, name, variant, category, image string, unitPrice decimal.Decimal) ConfiguredProduct {
	return ConfiguredProduct{
		sku:       sku,
		name:      name,
		variant:   variant,
		category:  category,
		image:     image,
		unitPrice: unitPrice,
	}
}

func (p ConfiguredProduct) Key() string                { return lineKey(p.sku, p.name, p.variant) }
func (p ConfiguredProduct) SKU() string                { return p.sku }
func (p ConfiguredProduct) Name() string               { return p.name }
func (p ConfiguredProduct) Variant() string            { return p.variant }
func (p ConfiguredProduct) Category() string           { return p.category }
func (p ConfiguredProduct) UnitPrice() decimal.Decimal { return p.unitPrice }
func (p ConfiguredProduct) DisplayImage() string       { return p.image }
