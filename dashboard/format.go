package dashboard

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders a dollar amount with thousands separators and at most
// two decimals, dropping trailing zeros: $12,345 or -$1,234.5
func FormatCurrency(v decimal.Decimal) string {
	v = v.Round(2)
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}

	s := v.String()
	whole, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")

	out := sign + "$" + groupThousands(whole)
	if frac != "" {
		out += "." + frac
	}
	return out
}

var compactUnits = []struct {
	suffix string
	scale  decimal.Decimal
}{
	{"T", decimal.New(1, 12)},
	{"B", decimal.New(1, 9)},
	{"M", decimal.New(1, 6)},
	{"K", decimal.New(1, 3)},
}

var thousand = decimal.NewFromInt(1000)

// FormatCompact renders a short figure for chart labels: 113K, 1.2M, 950
func FormatCompact(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}

	// Move up a unit while the rounded figure reaches 1000, so 999,999 is 1M
	suffix := ""
	scaled := compactRound(v)
	for i := len(compactUnits) - 1; i >= 0 && scaled.GreaterThanOrEqual(thousand); i-- {
		u := compactUnits[i]
		suffix, scaled = u.suffix, compactRound(v.Div(u.scale))
	}
	if scaled.IsZero() {
		sign = ""
	}
	return sign + scaled.String() + suffix
}

// compactRound keeps one decimal below 10 and none above
func compactRound(v decimal.Decimal) decimal.Decimal {
	if v.LessThan(decimal.NewFromInt(10)) {
		r := v.Round(1)
		if r.LessThan(decimal.NewFromInt(10)) {
			return r
		}
	}
	return v.Round(0)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
