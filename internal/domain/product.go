package domain

import "github.com/shopspring/decimal"

// Product is a ready-made catalog item sold without configuration.
type Product struct {
	Key         string          `yaml:"key" json:"key"`
	SKU         string          `yaml:"sku" json:"sku"`
	Name        string          `yaml:"name" json:"name"`
	Variant     string          `yaml:"variant,omitempty" json:"variant,omitempty"`
	Category    string          `yaml:"category" json:"category"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
	Price       decimal.Decimal `yaml:"price" json:"price"`
	Images      []string        `yaml:"images,omitempty" json:"images,omitempty"`
}
