package util

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders a decimal as "$1,234.56" (always two decimal
// places, comma thousand separators, minus sign before the dollar sign).
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	var sb strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}

	out := "$" + sb.String() + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
