package text

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ThousandsSeparator groups integer digits in formatted numbers.
const ThousandsSeparator = " "

// FormatNumber rounds d to the given decimal places and groups the integer
// part by thousands: 12345.678 with 2 places gives "12 345.68".
func FormatNumber(d decimal.Decimal, places int32) string {
	if places < 0 {
		places = 0
	}
	s := d.Round(places).StringFixed(places)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	out := sign + GroupThousands(intPart)
	if hasFrac {
		out += "." + frac
	}
	return out
}

// GroupThousands inserts ThousandsSeparator every three digits from the
// right of a digit string.
func GroupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	b.Grow(n + n/3)
	lead := n % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteString(ThousandsSeparator)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
