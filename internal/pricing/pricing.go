package pricing

import (
	"fmt"
	"sort"

	"bottlecraft/internal/domain"
	"github.com/shopspring/decimal"
)

// NextTier describes the volume break above the current one.
type NextTier struct {
	Threshold int             `json:"threshold"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Savings   decimal.Decimal `json:"savings"`
	UnitsAway int             `json:"unitsAway"`
}

// Result is the priced outcome for one vessel at one quantity. The zero value
// means no price could be resolved.
type Result struct {
	Threshold int             `json:"threshold"`
	BasePrice decimal.Decimal `json:"basePrice"`
	Upcharge  decimal.Decimal `json:"upcharge"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
	Quantity  int             `json:"quantity"`
	TierLabel string          `json:"tierLabel"`
	NextTier  *NextTier       `json:"nextTier,omitempty"`
}

// Priced reports whether a tier was found. Callers render an unpriced result
// as an incomplete selection, never as a free item.
func (r Result) Priced() bool {
	return r.Threshold > 0
}

// TierRow is one line of the tier table shown next to the configurator.
type TierRow struct {
	Threshold int             `json:"threshold"`
	Label     string          `json:"label"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Quote prices quantity units of vessel with the given fitment.
func Quote(matrix domain.PricingMatrix, vessel *domain.Vessel, fitment *domain.Fitment, quantity int) Result {
	if vessel == nil {
		return Result{}
	}
	tiers := sortedTiers(matrix.Tiers[vessel.ID])
	if len(tiers) == 0 {
		return Result{}
	}

	current := 0
	for i, t := range tiers {
		if t.Threshold <= quantity {
			current = i
		}
	}

	upcharge := Upcharge(matrix, fitment)
	tier := tiers[current]
	unit := tier.Price.Add(upcharge)

	res := Result{
		Threshold: tier.Threshold,
		BasePrice: tier.Price,
		Upcharge:  upcharge,
		UnitPrice: unit,
		Total:     unit.Mul(decimal.NewFromInt(int64(quantity))),
		Quantity:  quantity,
		TierLabel: Label(tier.Threshold),
	}
	if current+1 < len(tiers) {
		next := tiers[current+1]
		away := next.Threshold - quantity
		if away < 0 {
			away = 0
		}
		res.NextTier = &NextTier{
			Threshold: next.Threshold,
			UnitPrice: next.Price.Add(upcharge),
			Savings:   tier.Price.Sub(next.Price),
			UnitsAway: away,
		}
	}
	return res
}

// Tiers lists every volume break for vessel with the fitment upcharge applied.
func Tiers(matrix domain.PricingMatrix, vessel *domain.Vessel, fitment *domain.Fitment) []TierRow {
	if vessel == nil {
		return nil
	}
	upcharge := Upcharge(matrix, fitment)
	tiers := sortedTiers(matrix.Tiers[vessel.ID])
	rows := make([]TierRow, 0, len(tiers))
	for _, t := range tiers {
		rows = append(rows, TierRow{
			Threshold: t.Threshold,
			Label:     Label(t.Threshold),
			UnitPrice: t.Price.Add(upcharge),
		})
	}
	return rows
}

// Upcharge is the per-unit component surcharge for fitment.
func Upcharge(matrix domain.PricingMatrix, fitment *domain.Fitment) decimal.Decimal {
	if fitment != nil && fitment.IsMetal() {
		return matrix.MetalUpcharge
	}
	return decimal.Zero
}

func Label(threshold int) string {
	if threshold == 1 {
		return "Single unit"
	}
	return fmt.Sprintf("%d+ tier", threshold)
}

// sortedTiers copies tiers in ascending threshold order; catalog order is not
// trusted.
func sortedTiers(tiers []domain.Tier) []domain.Tier {
	out := make([]domain.Tier, len(tiers))
	copy(out, tiers)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Threshold < out[j].Threshold })
	return out
}
