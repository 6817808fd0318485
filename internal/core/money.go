package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents is a monetary amount in minor units. All sale arithmetic is done on Cents;
// floating point never touches a stored amount.
type Cents int64

// Decimal returns the amount in major units (e.g. 1050 → 10.50).
func (c Cents) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(c)).Shift(-2)
}

// String formats the amount with two decimal places.
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// SumCents adds up a list of amounts.
func SumCents(values ...Cents) Cents {
	var total Cents
	for _, v := range values {
		total += v
	}
	return total
}

// AverageCents returns sum/count rounded to two decimal places of a cent.
// A zero count yields zero.
func AverageCents(sum Cents, count int) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(sum)).DivRound(decimal.NewFromInt(int64(count)), 2)
}

// ParseCents reads an amount in major units ("12.50" or "12,50") into Cents.
// More than two decimal places is an error.
func ParseCents(s string) (Cents, error) {
	d, err := decimal.NewFromString(strings.Replace(strings.TrimSpace(s), ",", ".", 1))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	minor := d.Shift(2)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("invalid amount %q: at most 2 decimal places", s)
	}
	return Cents(minor.IntPart()), nil
}
