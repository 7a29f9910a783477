// Package money provides the fixed-point cents type used for every amount
// in a transaction. Arithmetic on Cents is plain integer arithmetic; decimal
// text is only converted at the parsing boundary.
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents is an amount in hundredths of the display currency.
type Cents int64

// ErrOverflow is returned when a result does not fit in Cents.
var ErrOverflow = errors.New("amount out of range")

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// ParseDecimal converts a decimal string such as "12.34" or "-0.5" to Cents,
// rounding to the nearest cent with halves away from zero.
func ParseDecimal(s string) (Cents, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid decimal amount %q: %w", s, err)
	}
	c, err := FromDecimal(d)
	if err != nil {
		return 0, fmt.Errorf("invalid decimal amount %q: %w", s, err)
	}
	return c, nil
}

// ParseInt converts an exact integer count of cents, as produced by
// Cents.Raw, back to Cents.
func ParseInt(s string) (Cents, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid cents amount %q: %w", s, err)
	}
	return Cents(v), nil
}

// FromDecimal scales d by 100 and rounds to the nearest cent.
func FromDecimal(d decimal.Decimal) (Cents, error) {
	return fromCents(d.Mul(hundred).Round(0))
}

// fromCents converts an integral number of cents, failing with ErrOverflow
// outside the int64 range.
func fromCents(d decimal.Decimal) (Cents, error) {
	if d.GreaterThan(maxCents) || d.LessThan(minCents) {
		return 0, ErrOverflow
	}
	return Cents(d.IntPart()), nil
}

// Decimal returns the amount in currency units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String renders the amount in currency units with exactly two decimals.
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// Raw renders the integer cents value.
func (c Cents) Raw() string {
	return strconv.FormatInt(int64(c), 10)
}

// Sum adds all values exactly. Intermediate totals may leave the int64
// range; only a final total that does not fit is ErrOverflow.
func Sum(values ...Cents) (Cents, error) {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromInt(int64(v)))
	}
	return fromCents(total)
}

// Add returns a+b, or ErrOverflow.
func Add(a, b Cents) (Cents, error) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return 0, ErrOverflow
	}
	return s, nil
}

// Sub returns a-b, or ErrOverflow.
func Sub(a, b Cents) (Cents, error) {
	s := a - b
	if (b > 0 && s > a) || (b < 0 && s < a) {
		return 0, ErrOverflow
	}
	return s, nil
}

// Mul returns a*b, or ErrOverflow.
func Mul(a, b Cents) (Cents, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	p := a * b
	if p/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, ErrOverflow
	}
	return p, nil
}

// Neg returns -a, or ErrOverflow for the most negative value.
func Neg(a Cents) (Cents, error) {
	if a == math.MinInt64 {
		return 0, ErrOverflow
	}
	return -a, nil
}
