package banken

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount in the display conventions of its currency
// (symbol, fraction digits, separators). The currency stays an opaque label
// for the ledger itself; an unknown code falls back to a generic two-decimal
// format, it is never an error.
func FormatAmount(amount decimal.Decimal, currency string) string {
	// to get a never nil currency I need to call the Money constructor
	cur := *money.New(0, currency).Currency()
	return cur.Formatter().Format(amount.Shift(int32(cur.Fraction)).IntPart())
}
