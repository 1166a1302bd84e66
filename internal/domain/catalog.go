package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Fitment categories recognised by pricing and preview resolution.
const (
	FitmentMetal   = "metal"
	FitmentPlastic = "plastic"
)

// Vessel is a selectable container variant.
type Vessel struct {
	ID        string `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	Color     string `yaml:"color" json:"color,omitempty"`
	SKUPrefix string `yaml:"skuPrefix" json:"skuPrefix"`
	ImageURL  string `yaml:"imageUrl" json:"imageUrl,omitempty"`
	// FitmentImages holds vessel shots per fitment category (metal, plastic).
	FitmentImages map[string]string `yaml:"fitmentImages,omitempty" json:"fitmentImages,omitempty"`
}

// Fitment is the roller, sprayer or insert seated in the vessel neck.
type Fitment struct {
	ID         string          `yaml:"id" json:"id"`
	Name       string          `yaml:"name" json:"name"`
	Category   string          `yaml:"category" json:"category"`
	SKUCode    string          `yaml:"skuCode" json:"skuCode"`
	PriceDelta decimal.Decimal `yaml:"priceDelta" json:"priceDelta"`
}

func (f Fitment) IsMetal() bool {
	return strings.EqualFold(strings.TrimSpace(f.Category), FitmentMetal)
}

// Closure is the cap that finishes the assembly.
type Closure struct {
	ID                string `yaml:"id" json:"id"`
	Name              string `yaml:"name" json:"name"`
	Color             string `yaml:"color" json:"color,omitempty"`
	SKUCode           string `yaml:"skuCode" json:"skuCode"`
	ImageCode         string `yaml:"imageCode" json:"imageCode,omitempty"`
	HasCompositeImage bool   `yaml:"hasCompositeImage" json:"hasCompositeImage"`
	OutOfStock        bool   `yaml:"outOfStock" json:"-"`
}

func (c Closure) Available() bool {
	return !c.OutOfStock
}

// Tier is a base unit price that applies from Threshold units upwards.
type Tier struct {
	Threshold int             `yaml:"min" json:"min"`
	Price     decimal.Decimal `yaml:"price" json:"price"`
}

// PricingMatrix holds per-vessel tier lists and the metal fitment upcharge.
type PricingMatrix struct {
	MetalUpcharge decimal.Decimal   `yaml:"metalUpcharge" json:"metalUpcharge"`
	Tiers         map[string][]Tier `yaml:"tiers" json:"tiers"`
}

// SKURecord maps an exact component triple to a published SKU. An empty
// Fitment matches any fitment.
type SKURecord struct {
	Vessel  string `yaml:"vessel" json:"vessel"`
	Fitment string `yaml:"fitment,omitempty" json:"fitment,omitempty"`
	Closure string `yaml:"closure" json:"closure"`
	SKU     string `yaml:"sku" json:"sku"`
}

// ImageSubstitution rewrites part of an assembled vessel image filename when
// Closure is chosen.
type ImageSubstitution struct {
	Closure string `yaml:"closure" json:"closure"`
	From    string `yaml:"from" json:"from"`
	To      string `yaml:"to" json:"to"`
}

// PreviewOverride marks families whose vessel images already show the whole
// assembled unit.
type PreviewOverride struct {
	AssembledVessel bool                `yaml:"assembledVessel" json:"assembledVessel"`
	Substitutions   []ImageSubstitution `yaml:"substitutions,omitempty" json:"substitutions,omitempty"`
}

// Family is one configurable product line and everything needed to price and
// identify its assemblies.
type Family struct {
	Key              string          `yaml:"key" json:"key"`
	Name             string          `yaml:"name" json:"name"`
	Category         string          `yaml:"category" json:"category"`
	Description      string          `yaml:"description,omitempty" json:"description,omitempty"`
	Version          string          `yaml:"version" json:"version"`
	CompositeBaseURL string          `yaml:"compositeBaseUrl,omitempty" json:"-"`
	Preview          PreviewOverride `yaml:"preview,omitempty" json:"-"`
	Vessels          []Vessel        `yaml:"vessels" json:"vessels"`
	Fitments         []Fitment       `yaml:"fitments,omitempty" json:"fitments,omitempty"`
	Closures         []Closure       `yaml:"closures" json:"closures"`
	Pricing          PricingMatrix   `yaml:"pricing" json:"-"`
	SKUMatrix        []SKURecord     `yaml:"skuMatrix,omitempty" json:"-"`
}

func (f *Family) Vessel(id string) (*Vessel, bool) {
	for i := range f.Vessels {
		if f.Vessels[i].ID == id {
			return &f.Vessels[i], true
		}
	}
	return nil, false
}

func (f *Family) Fitment(id string) (*Fitment, bool) {
	for i := range f.Fitments {
		if f.Fitments[i].ID == id {
			return &f.Fitments[i], true
		}
	}
	return nil, false
}

func (f *Family) Closure(id string) (*Closure, bool) {
	for i := range f.Closures {
		if f.Closures[i].ID == id {
			return &f.Closures[i], true
		}
	}
	return nil, false
}

// HasFitmentStep reports whether the shopper has a fitment choice to make.
// Families with zero or one fitment skip the step.
func (f *Family) HasFitmentStep() bool {
	return len(f.Fitments) > 1
}
