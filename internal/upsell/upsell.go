package upsell

import (
	"strings"

	"github.com/shopspring/decimal"

	"bottlecraft/internal/domain"
)

// MaxSuggestions caps the list shown under the cart.
const MaxSuggestions = 2

type Suggestion struct {
	SKU    string          `json:"sku"`
	Name   string          `json:"name"`
	Reason string          `json:"reason"`
	Price  decimal.Decimal `json:"price"`
	Image  string          `json:"image,omitempty"`
}

var (
	Sprayer = Suggestion{
		SKU:    "ACC-SPRAY-FINE",
		Name:   "Fine Mist Sprayer",
		Reason: "Your bottles have no closure yet",
		Price:  decimal.RequireFromString("0.45"),
		Image:  "https://cdn.bottlecraft.example/accessories/fine-mist-sprayer.png",
	}
	Pouch = Suggestion{
		SKU:    "ACC-POUCH-VELVET",
		Name:   "Protective Velvet Pouch",
		Reason: "Keeps glass safe in transit",
		Price:  decimal.RequireFromString("1.25"),
		Image:  "https://cdn.bottlecraft.example/accessories/velvet-pouch.png",
	}
	Funnel = Suggestion{
		SKU:    "ACC-FUNNEL-SET",
		Name:   "Mini Funnel Set",
		Reason: "Spill-free filling",
		Price:  decimal.RequireFromString("2.95"),
		Image:  "https://cdn.bottlecraft.example/accessories/funnel-set.png",
	}
)

var closureWords = []string{"cap", "pump", "closure"}

// Suggest derives up to MaxSuggestions complementary items from the cart
// lines. Rules accumulate in order and the combined list is truncated, so a
// later rule never displaces an earlier one.
func Suggest(lines []domain.CartLine) []Suggestion {
	out := []Suggestion{}
	if len(lines) == 0 {
		return out
	}

	if hasBottle(lines) && !hasClosure(lines) {
		out = append(out, Sprayer)
	}
	out = append(out, Pouch, Funnel)

	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

func hasBottle(lines []domain.CartLine) bool {
	return hasAny(lines, []string{"bottle"}, false)
}

// hasClosure also reads the variant: configured bottles carry their cap in
// the variant label ("Clear Glass / Plastic Roller Ball / Black Short Cap").
func hasClosure(lines []domain.CartLine) bool {
	return hasAny(lines, closureWords, true)
}

func hasAny(lines []domain.CartLine, words []string, withVariant bool) bool {
	for _, l := range lines {
		fields := []string{strings.ToLower(l.Name), strings.ToLower(l.Category)}
		if withVariant {
			fields = append(fields, strings.ToLower(l.Variant))
		}
		for _, w := range words {
			for _, f := range fields {
				if strings.Contains(f, w) {
					return true
				}
			}
		}
	}
	return false
}
