package money

import "strings"

// Display selects whether the currency symbol or its ISO code is printed.
type Display string

const (
	DisplaySymbol Display = "symbol"
	DisplayCode   Display = "code"
)

// Position selects the side of the number the currency label goes on.
type Position string

const (
	PositionLeft  Position = "left"
	PositionRight Position = "right"
)

// Profile is the default formatting convention for a currency.
type Profile struct {
	Code             string
	Symbol           string
	Digits           int
	GroupSeparator   string
	DecimalSeparator string
	Position         Position
	Display          Display
}

// DefaultCode is used when a business has no currency or an unknown one.
const DefaultCode = "USD"

var profiles = map[string]Profile{
	"USD": {Code: "USD", Symbol: "$", Digits: 2, GroupSeparator: ",", DecimalSeparator: ".", Position: PositionLeft},
	"CAD": {Code: "CAD", Symbol: "$", Digits: 2, GroupSeparator: ",", DecimalSeparator: ".", Position: PositionLeft},
	"AUD": {Code: "AUD", Symbol: "$", Digits: 2, GroupSeparator: ",", DecimalSeparator: ".", Position: PositionLeft},
	"MXN": {Code: "MXN", Symbol: "$", Digits: 2, GroupSeparator: ",", DecimalSeparator: ".", Position: PositionLeft},
	"EUR": {Code: "EUR", Symbol: "€", Digits: 2, GroupSeparator: ".", DecimalSeparator: ",", Position: PositionRight},
	"GBP": {Code: "GBP", Symbol: "£", Digits: 2, GroupSeparator: ",", DecimalSeparator: ".", Position: PositionLeft},
	"CHF": {Code: "CHF", Symbol: "CHF", Digits: 2, GroupSeparator: "'", DecimalSeparator: ".", Position: PositionLeft},
	"JPY": {Code: "JPY", Symbol: "¥", Digits: 0, GroupSeparator: ",", DecimalSeparator: ".", Position: PositionLeft},
	"CNY": {Code: "CNY", Symbol: "¥", Digits: 2, GroupSeparator: ",", DecimalSeparator: ".", Position: PositionLeft},
	"INR": {Code: "INR", Symbol: "₹", Digits: 2, GroupSeparator: ",", DecimalSeparator: ".", Position: PositionLeft},
	"KES": {Code: "KES", Symbol: "KSh", Digits: 2, GroupSeparator: ",", DecimalSeparator: ".", Position: PositionLeft},
	"NGN": {Code: "NGN", Symbol: "₦", Digits: 2, GroupSeparator: ",", DecimalSeparator: ".", Position: PositionLeft},
	"ZAR": {Code: "ZAR", Symbol: "R", Digits: 2, GroupSeparator: ",", DecimalSeparator: ".", Position: PositionLeft},
	"BRL": {Code: "BRL", Symbol: "R$", Digits: 2, GroupSeparator: ".", DecimalSeparator: ",", Position: PositionLeft},
	"TRY": {Code: "TRY", Symbol: "₺", Digits: 2, GroupSeparator: ".", DecimalSeparator: ",", Position: PositionLeft},
	"ILS": {Code: "ILS", Symbol: "₪", Digits: 2, GroupSeparator: ",", DecimalSeparator: ".", Position: PositionLeft},
	"SAR": {Code: "SAR", Symbol: "ر.س", Digits: 2, GroupSeparator: ",", DecimalSeparator: ".", Position: PositionRight},
	"AED": {Code: "AED", Symbol: "د.إ", Digits: 2, GroupSeparator: ",", DecimalSeparator: ".", Position: PositionRight},
	"EGP": {Code: "EGP", Symbol: "ج.م", Digits: 2, GroupSeparator: ",", DecimalSeparator: ".", Position: PositionRight},
	"KWD": {Code: "KWD", Symbol: "د.ك", Digits: 3, GroupSeparator: ",", DecimalSeparator: ".", Position: PositionRight},
	"JOD": {Code: "JOD", Symbol: "د.ا", Digits: 3, GroupSeparator: ",", DecimalSeparator: ".", Position: PositionRight},
	"IQD": {Code: "IQD", Symbol: "ع.د", Digits: 0, GroupSeparator: ",", DecimalSeparator: ".", Position: PositionRight},
}

// Lookup returns the formatting profile for a currency code.
// Unknown codes get the USD profile.
func Lookup(code string) Profile {
	p, ok := profiles[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		p = profiles[DefaultCode]
	}
	p.Display = DisplaySymbol
	return p
}

// Known reports whether code has a dedicated profile.
func Known(code string) bool {
	_, ok := profiles[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}
