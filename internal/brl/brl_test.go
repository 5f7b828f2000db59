package brl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"100,00", 100},
		{"1.234,56", 1234.56},
		{"1234.56", 1234.56},
		{"0,5", 0.5},
		{" 10,00 ", 10},
		{"-588,74", -588.74},
		{"", 0},
		{"abc", 0},
		{"1 234,50", 1234.5},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, ParseDecimal(tc.in), 1e-9, "input %q", tc.in)
	}
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "0,00", FormatCurrency(0))
	assert.Equal(t, "100,00", FormatCurrency(100))
	assert.Equal(t, "1.234,56", FormatCurrency(1234.56))
	assert.Equal(t, "1.234.567,89", FormatCurrency(1234567.89))
	assert.Equal(t, "-1.234,50", FormatCurrency(-1234.5))
	assert.Equal(t, "999,99", FormatCurrency(999.99))
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "100,00", FormatPercentage(100))
	assert.Equal(t, "33,33", FormatPercentage(33.333333))
	assert.Equal(t, "0,00", FormatPercentage(0))
}

func TestRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 0.01, 1, 99.9, 150, 1234.56, 98765.43, 1234567.89} {
		assert.InDelta(t, v, ParseDecimal(FormatCurrency(v)), 1e-9)
	}
}
