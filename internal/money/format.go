package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/bidi"
)

// lrm is the Unicode LEFT-TO-RIGHT MARK.
const lrm = "\u200e"

// Options overrides a currency profile. Zero values keep the profile default.
type Options struct {
	Display          Display  `json:"display,omitempty"`
	Position         Position `json:"position,omitempty"`
	Digits           *int     `json:"digits,omitempty"`
	GroupSeparator   string   `json:"groupSeparator,omitempty"`
	DecimalSeparator string   `json:"decimalSeparator,omitempty"`
}

// Digits is a helper for building Options literals.
func Digits(n int) *int {
	return &n
}

// Resolve merges opts over the profile for code.
func Resolve(code string, opts *Options) Profile {
	p := Lookup(code)
	if opts == nil {
		return p
	}
	if opts.Display == DisplayCode || opts.Display == DisplaySymbol {
		p.Display = opts.Display
	}
	if opts.Position == PositionLeft || opts.Position == PositionRight {
		p.Position = opts.Position
	}
	if opts.Digits != nil && *opts.Digits >= 0 {
		p.Digits = *opts.Digits
	}
	if opts.GroupSeparator != "" {
		p.GroupSeparator = opts.GroupSeparator
	}
	if opts.DecimalSeparator != "" {
		p.DecimalSeparator = opts.DecimalSeparator
	}
	return p
}

// Format renders amount in the conventions of the currency code,
// e.g. Format(1234.5, "USD", nil) == "$ 1,234.50".
func Format(amount decimal.Decimal, code string, opts *Options) string {
	return FormatProfile(amount, Resolve(code, opts))
}

// FormatFloat is Format for float inputs. NaN and infinities format as zero.
func FormatFloat(amount float64, code string, opts *Options) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	return Format(decimal.NewFromFloat(amount), code, opts)
}

// FormatProfile renders amount with an already resolved profile.
func FormatProfile(amount decimal.Decimal, p Profile) string {
	number := formatNumber(amount, p.Digits, p.GroupSeparator, p.DecimalSeparator)

	label := p.Symbol
	if p.Display == DisplayCode {
		label = p.Code
	}
	if IsRTL(label) {
		label = lrm + label
	}

	if p.Position == PositionRight {
		return number + " " + label
	}
	return label + " " + number
}

// IsRTL reports whether s contains right-to-left script characters.
func IsRTL(s string) bool {
	for _, r := range s {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.R, bidi.AL:
			return true
		}
	}
	return false
}

func formatNumber(amount decimal.Decimal, digits int, group, dec string) string {
	rounded := amount.Round(int32(digits))
	fixed := rounded.Abs().StringFixed(int32(digits))

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(groupDigits(intPart, group))
	if digits > 0 {
		b.WriteString(dec)
		b.WriteString(fracPart)
	}
	return b.String()
}

func groupDigits(s, sep string) string {
	if len(s) <= 3 || sep == "" {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
