// ABOUTME: Rupiah price parsing and discount derivation
// ABOUTME: Display strings use '.' for thousands and ',' for decimals

package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	pricePattern = regexp.MustCompile(`\d[\d.,]*`)
	hundred      = decimal.NewFromInt(100)
)

// ParsePrice extracts the amount from a display price such as "Rp150.000" or
// "Rp1.250.000,50". A range like "Rp10.000 - Rp20.000" yields the lower bound.
// Unparseable input returns zero.
func ParsePrice(display string) decimal.Decimal {
	m := pricePattern.FindString(display)
	if m == "" {
		return decimal.Zero
	}
	m = strings.TrimRight(m, ".,")
	m = strings.ReplaceAll(m, ".", "")
	m = strings.ReplaceAll(m, ",", ".")
	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// DiscountPercent derives the discount from the original and current amounts,
// rounded to one decimal. It is zero unless original exceeds current.
func DiscountPercent(original, current decimal.Decimal) float64 {
	if !original.IsPositive() || !current.IsPositive() || original.LessThanOrEqual(current) {
		return 0
	}
	pct := original.Sub(current).Div(original).Mul(hundred).Round(1)
	f, _ := pct.Float64()
	return f
}

// FormatRupiah renders an amount the way the upstream displays prices
func FormatRupiah(amount decimal.Decimal) string {
	whole := amount.Truncate(0).String()
	neg := strings.HasPrefix(whole, "-")
	whole = strings.TrimPrefix(whole, "-")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-Rp" + b.String()
	}
	return "Rp" + b.String()
}
