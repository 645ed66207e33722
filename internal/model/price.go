package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	priceScale     = 2
	priceMaxDigits = 10
)

// ErrInvalidPrice is returned for negative prices, prices with more than two
// fractional digits, or prices that do not fit in DECIMAL(10,2).
var ErrInvalidPrice = errors.New("invalid price")

// Price is a non-negative fixed-point amount with exactly two fractional digits.
// Values carrying more precision are rejected, never rounded.
type Price struct {
	d decimal.Decimal
}

// NewPrice validates d and returns it as a Price.
func NewPrice(d decimal.Decimal) (Price, error) {
	if d.IsNegative() {
		return Price{}, fmt.Errorf("%w: %s is negative", ErrInvalidPrice, d.String())
	}
	if !d.Equal(d.Truncate(priceScale)) {
		return Price{}, fmt.Errorf("%w: %s has more than %d fractional digits", ErrInvalidPrice, d.String(), priceScale)
	}
	limit := decimal.New(1, priceMaxDigits-priceScale)
	if d.GreaterThanOrEqual(limit) {
		return Price{}, fmt.Errorf("%w: %s exceeds %d digits", ErrInvalidPrice, d.String(), priceMaxDigits)
	}
	return Price{d: d.Truncate(priceScale)}, nil
}

// ParsePrice parses a decimal string such as "19.5" or "19.50".
func ParsePrice(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	return NewPrice(d)
}

// MustPrice is ParsePrice for literals; it panics on invalid input.
func MustPrice(s string) Price {
	p, err := ParsePrice(s)
	if err != nil {
		panic(err)
	}
	return p
}

// PriceFromStore converts a value read back from the store. Stores that keep
// NUMERIC as binary floating point can return 19.499999...; those are rounded
// to the column scale.
func PriceFromStore(d decimal.Decimal) Price {
	return Price{d: d.Round(priceScale)}
}

// Decimal returns the underlying value.
func (p Price) Decimal() decimal.Decimal { return p.d }

// String always renders two fractional digits.
func (p Price) String() string { return p.d.StringFixed(priceScale) }

// MarshalJSON encodes the price as a JSON string ("19.50") so clients never
// see a binary float.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON accepts both "19.50" and 19.5.
func (p *Price) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParsePrice(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
