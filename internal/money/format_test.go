package money_test

import (
	"math"
	"strings"
	"testing"

	"github.com/dukerupert/fakturo/internal/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		code     string
		opts     *money.Options
		expected string
	}{
		{name: "usd default", amount: "1234.5", code: "USD", expected: "$ 1,234.50"},
		{name: "usd zero digits rounds up", amount: "1234.5", code: "USD", opts: &money.Options{Digits: money.Digits(0)}, expected: "$ 1,235"},
		{name: "usd zero digits rounds down", amount: "1234.49", code: "USD", opts: &money.Options{Digits: money.Digits(0)}, expected: "$ 1,234"},
		{name: "half cent rounds away from zero", amount: "0.005", code: "USD", expected: "$ 0.01"},
		{name: "below one thousand", amount: "999", code: "USD", expected: "$ 999.00"},
		{name: "millions", amount: "1000000", code: "USD", expected: "$ 1,000,000.00"},
		{name: "zero", amount: "0", code: "USD", expected: "$ 0.00"},
		{name: "negative", amount: "-5", code: "USD", expected: "$ -5.00"},
		{name: "negative rounding to zero has no sign", amount: "-0.001", code: "USD", expected: "$ 0.00"},
		{name: "lower case code", amount: "10", code: "gbp", expected: "£ 10.00"},
		{name: "euro right with swapped separators", amount: "1234.5", code: "EUR", expected: "1.234,50 €"},
		{name: "yen has no decimals", amount: "1234567.8", code: "JPY", expected: "¥ 1,234,568"},
		{name: "unknown currency falls back to usd", amount: "10", code: "XYZ", expected: "$ 10.00"},
		{name: "empty currency falls back to usd", amount: "10", code: "", expected: "$ 10.00"},
		{name: "code display", amount: "10", code: "USD", opts: &money.Options{Display: money.DisplayCode}, expected: "USD 10.00"},
		{name: "position override", amount: "10", code: "USD", opts: &money.Options{Position: money.PositionRight}, expected: "10.00 $"},
		{name: "separator overrides", amount: "1234567.891", code: "USD", opts: &money.Options{GroupSeparator: " ", DecimalSeparator: ","}, expected: "$ 1 234 567,89"},
		{name: "three digit currency", amount: "12.3456", code: "KWD", opts: &money.Options{Display: money.DisplayCode}, expected: "12.346 KWD"},
		{name: "more digits than profile", amount: "1.5", code: "USD", opts: &money.Options{Digits: money.Digits(3)}, expected: "$ 1.500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := money.Format(decimal.RequireFromString(tt.amount), tt.code, tt.opts)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormat_RTLSymbolGetsDirectionalMark(t *testing.T) {
	for _, code := range []string{"SAR", "AED", "EGP", "KWD", "JOD", "IQD"} {
		t.Run(code, func(t *testing.T) {
			symbol := money.Lookup(code).Symbol
			got := money.Format(decimal.NewFromInt(1500), code, nil)

			mark := strings.Index(got, "\u200e")
			require.GreaterOrEqual(t, mark, 0, "LRM must be present in %q", got)
			assert.Equal(t, mark+len("\u200e"), strings.Index(got, symbol), "LRM must directly precede the symbol")
		})
	}
}

func TestFormat_RTLMarkFollowsSymbolToTheLeft(t *testing.T) {
	got := money.Format(decimal.NewFromInt(7), "SAR", &money.Options{Position: money.PositionLeft})
	assert.True(t, strings.HasPrefix(got, "\u200e"+money.Lookup("SAR").Symbol+" "))
}

func TestFormat_LTRSymbolsHaveNoMark(t *testing.T) {
	for _, code := range []string{"USD", "EUR", "ILS", "INR"} {
		got := money.Format(decimal.NewFromInt(1), code, nil)
		assert.NotContains(t, got, "\u200e", code)
	}
}

func TestFormat_CodeDisplayOfRTLCurrencyHasNoMark(t *testing.T) {
	got := money.Format(decimal.NewFromInt(1), "AED", &money.Options{Display: money.DisplayCode})
	assert.Equal(t, "1.00 AED", got)
}

func TestFormatFloat_NonFiniteIsZero(t *testing.T) {
	assert.Equal(t, "$ 0.00", money.FormatFloat(math.NaN(), "USD", nil))
	assert.Equal(t, "$ 0.00", money.FormatFloat(math.Inf(1), "USD", nil))
	assert.Equal(t, "$ 1,234.50", money.FormatFloat(1234.5, "USD", nil))
}

func TestLookup(t *testing.T) {
	p := money.Lookup("nope")
	assert.Equal(t, "USD", p.Code)
	assert.Equal(t, "$", p.Symbol)
	assert.Equal(t, 2, p.Digits)
	assert.Equal(t, ",", p.GroupSeparator)
	assert.Equal(t, ".", p.DecimalSeparator)
	assert.False(t, money.Known("nope"))
	assert.True(t, money.Known("eur"))
}

func TestIsRTL(t *testing.T) {
	assert.True(t, money.IsRTL("ر.س"))
	assert.True(t, money.IsRTL("₪ש"))
	assert.False(t, money.IsRTL("$"))
	assert.False(t, money.IsRTL("₪"))
	assert.False(t, money.IsRTL(""))
}
