package accounting

import "github.com/shopspring/decimal"

// MinorUnits is the number of decimal places of the currency minor unit.
// The books are kept in a single currency with two decimal places.
const MinorUnits = 2

// RoundMinor rounds an amount to the currency's minor unit using
// round-half-to-even (banker's rounding).
func RoundMinor(amount decimal.Decimal) decimal.Decimal {
	return amount.RoundBank(MinorUnits)
}

// LineSubtotal computes quantity x unit price rounded to the minor unit.
func LineSubtotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return RoundMinor(quantity.Mul(unitPrice))
}
