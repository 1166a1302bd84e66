package cart

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Price decodes a JSON price given either as a number (12.34) or as a
// currency string ("$12.34"). Anything unparseable decodes to zero.
type Price struct {
	decimal.Decimal
}

func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			p.Decimal = decimal.Zero
			return nil
		}
		p.Decimal = ParsePrice(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		p.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		d = decimal.Zero
	}
	p.Decimal = d
	return nil
}

// ParsePrice strips at most one leading currency symbol, surrounding
// whitespace and thousands separators, then parses the rest. Any other
// leading text makes the price unparseable. It returns zero instead of an
// error.
func ParsePrice(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if r, size := utf8.DecodeRuneInString(s); size > 0 && unicode.Is(unicode.Sc, r) {
		s = strings.TrimSpace(s[size:])
	}
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// NormalizePrice accepts the price shapes seen from upstream producers.
func NormalizePrice(v interface{}) decimal.Decimal {
	switch p := v.(type) {
	case decimal.Decimal:
		return p
	case Price:
		return p.Decimal
	case string:
		return ParsePrice(p)
	case float64:
		return decimal.NewFromFloat(p)
	case float32:
		return decimal.NewFromFloat32(p)
	case int:
		return decimal.NewFromInt(int64(p))
	case int64:
		return decimal.NewFromInt(p)
	case json.Number:
		return ParsePrice(p.String())
	default:
		return decimal.Zero
	}
}
