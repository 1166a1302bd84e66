package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"bottlecraft/internal/domain"
)

// Validate checks a family for the data defects that would otherwise surface
// as unpriced or unidentifiable selections. All problems are reported
// together, each wrapping domain.ErrInvalidCatalog.
func Validate(f *domain.Family) error {
	var errs []error
	fail := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: family %q: %s", domain.ErrInvalidCatalog, f.Key, fmt.Sprintf(format, args...)))
	}

	if strings.TrimSpace(f.Key) == "" {
		fail("key required")
	}
	if strings.TrimSpace(f.Name) == "" {
		fail("name required")
	}
	if len(f.Vessels) == 0 {
		fail("at least one vessel required")
	}
	if len(f.Closures) == 0 {
		fail("at least one closure required")
	}

	vessels := map[string]bool{}
	for _, v := range f.Vessels {
		if v.ID == "" {
			fail("vessel id required")
			continue
		}
		if vessels[v.ID] {
			fail("duplicate vessel id %q", v.ID)
		}
		vessels[v.ID] = true
		if v.SKUPrefix == "" {
			fail("vessel %q: skuPrefix required", v.ID)
		}
	}

	fitments := map[string]bool{}
	for _, fit := range f.Fitments {
		if fit.ID == "" {
			fail("fitment id required")
			continue
		}
		if fitments[fit.ID] {
			fail("duplicate fitment id %q", fit.ID)
		}
		fitments[fit.ID] = true
	}

	closures := map[string]bool{}
	for _, c := range f.Closures {
		if c.ID == "" {
			fail("closure id required")
			continue
		}
		if closures[c.ID] {
			fail("duplicate closure id %q", c.ID)
		}
		closures[c.ID] = true
		if c.SKUCode == "" && c.ImageCode == "" {
			fail("closure %q: skuCode or imageCode required", c.ID)
		}
	}

	if f.Pricing.MetalUpcharge.IsNegative() {
		fail("metal upcharge must not be negative")
	}
	for id := range f.Pricing.Tiers {
		if !vessels[id] {
			fail("pricing references unknown vessel %q", id)
		}
	}
	for _, v := range f.Vessels {
		for _, msg := range checkTiers(f.Pricing.Tiers[v.ID]) {
			fail("vessel %q: %s", v.ID, msg)
		}
	}

	for i, rec := range f.SKUMatrix {
		if rec.SKU == "" {
			fail("skuMatrix[%d]: sku required", i)
		}
		if !vessels[rec.Vessel] {
			fail("skuMatrix[%d]: unknown vessel %q", i, rec.Vessel)
		}
		if !closures[rec.Closure] {
			fail("skuMatrix[%d]: unknown closure %q", i, rec.Closure)
		}
		if rec.Fitment != "" && !fitments[rec.Fitment] {
			fail("skuMatrix[%d]: unknown fitment %q", i, rec.Fitment)
		}
	}

	for _, s := range f.Preview.Substitutions {
		if !closures[s.Closure] {
			fail("preview substitution references unknown closure %q", s.Closure)
		}
	}

	return errors.Join(errs...)
}

// checkTiers enforces at least one tier, thresholds of at least one that
// strictly increase, and prices that never rise with volume.
func checkTiers(tiers []domain.Tier) []string {
	if len(tiers) == 0 {
		return []string{"no pricing tiers"}
	}
	sorted := make([]domain.Tier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Threshold < sorted[j].Threshold })

	var msgs []string
	for i, t := range sorted {
		if t.Threshold < 1 {
			msgs = append(msgs, fmt.Sprintf("tier threshold %d below 1", t.Threshold))
		}
		if t.Price.IsNegative() {
			msgs = append(msgs, fmt.Sprintf("tier %d has negative price", t.Threshold))
		}
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		if t.Threshold == prev.Threshold {
			msgs = append(msgs, fmt.Sprintf("duplicate tier threshold %d", t.Threshold))
		}
		if t.Price.GreaterThan(prev.Price) {
			msgs = append(msgs, fmt.Sprintf("tier %d price %s exceeds tier %d price %s", t.Threshold, t.Price, prev.Threshold, prev.Price))
		}
	}
	return msgs
}

// ValidateProducts checks ready-made products for missing keys and names,
// duplicate keys and negative prices.
func ValidateProducts(products []domain.Product) error {
	var errs []error
	seen := map[string]bool{}
	for i, p := range products {
		switch {
		case p.Key == "":
			errs = append(errs, fmt.Errorf("%w: products[%d]: key required", domain.ErrInvalidCatalog, i))
			continue
		case seen[p.Key]:
			errs = append(errs, fmt.Errorf("%w: duplicate product key %q", domain.ErrInvalidCatalog, p.Key))
		}
		seen[p.Key] = true
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("%w: product %q: name required", domain.ErrInvalidCatalog, p.Key))
		}
		if p.Price.IsNegative() {
			errs = append(errs, fmt.Errorf("%w: product %q: negative price", domain.ErrInvalidCatalog, p.Key))
		}
	}
	return errors.Join(errs...)
}
