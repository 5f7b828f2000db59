// Package brl converts between machine floats and Brazilian-locale number
// strings ("1.234,56"). Source invoices use either comma or dot decimals,
// so parsing is deliberately forgiving.
package brl

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal parses a numeric string that may use either "." or "," as
// the decimal separator, with optional thousands grouping. When both appear
// the dot is taken as grouping and the comma as the decimal point. Empty or
// unparseable input yields 0.
func ParseDecimal(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, " ", "")

	if strings.Contains(s, ",") && strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// FormatCurrency renders v with two fraction digits, "." as the thousands
// separator and "," as the decimal point. No currency symbol.
func FormatCurrency(v float64) string {
	fixed := decimal.NewFromFloat(v).StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}

// FormatPercentage renders v with two fraction digits and a comma decimal
// point, without grouping.
func FormatPercentage(v float64) string {
	fixed := decimal.NewFromFloat(v).StringFixed(2)
	return strings.ReplaceAll(fixed, ".", ",")
}
