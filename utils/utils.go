package utils

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders an amount as "NGN 1,234.50". Digits are taken from
// the decimal itself; only the integer part goes through the grouping printer.
func FormatAmount(currency string, amount decimal.Decimal) string {
	fixed := amount.Round(2)
	abs := fixed.Abs()
	whole := abs.Truncate(0)

	if !whole.BigInt().IsInt64() {
		return currency + " " + fixed.StringFixed(2)
	}

	sign := ""
	if fixed.IsNegative() {
		sign = "-"
	}
	cents := abs.Sub(whole).StringFixed(2)[1:]
	return currency + " " + sign + amountPrinter.Sprintf("%d", whole.IntPart()) + cents
}
