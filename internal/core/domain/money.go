package domain

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/pos_ledger_engine/internal/apperrors"
)

// Money is an amount expressed in integer minor currency units (e.g. cents).
type Money int64

// DefaultPrecision is the number of minor-unit digits used when none is configured.
const DefaultPrecision int32 = 2

// ErrSubMinorUnit is returned when an amount cannot be represented in whole minor units.
var ErrSubMinorUnit = errors.New("amount has more decimal places than the currency precision")

// ErrMoneyOverflow is returned when an amount or a sum of amounts does not fit in Money.
var ErrMoneyOverflow = fmt.Errorf("%w: amount out of range", apperrors.ErrValidation)

var (
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
	minMinorUnits = decimal.NewFromInt(math.MinInt64)
)

// MoneyFromDecimal converts a major-unit decimal into minor units for the given precision.
// Amounts that would need rounding are rejected rather than silently rounded.
func MoneyFromDecimal(amount decimal.Decimal, precision int32) (Money, error) {
	shifted := amount.Shift(precision)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("%w: %s", ErrSubMinorUnit, amount.String())
	}
	if shifted.GreaterThan(maxMinorUnits) || shifted.LessThan(minMinorUnits) {
		return 0, fmt.Errorf("%w: %s", ErrMoneyOverflow, amount.String())
	}
	return Money(shifted.IntPart()), nil
}

// Add returns m + other, or ErrMoneyOverflow if the sum does not fit.
func (m Money) Add(other Money) (Money, error) {
	sum := m + other
	if (other > 0 && sum < m) || (other < 0 && sum > m) {
		return 0, fmt.Errorf("%w: %d + %d", ErrMoneyOverflow, m, other)
	}
	return sum, nil
}

// Sub returns m - other, or ErrMoneyOverflow if the difference does not fit.
func (m Money) Sub(other Money) (Money, error) {
	diff := m - other
	if (other > 0 && diff > m) || (other < 0 && diff < m) {
		return 0, fmt.Errorf("%w: %d - %d", ErrMoneyOverflow, m, other)
	}
	return diff, nil
}

// Mul returns m * n, or ErrMoneyOverflow if the product does not fit.
func (m Money) Mul(n int64) (Money, error) {
	if m == 0 || n == 0 {
		return 0, nil
	}
	product := int64(m) * n
	if product/n != int64(m) || (m == math.MinInt64 && n == -1) {
		return 0, fmt.Errorf("%w: %d * %d", ErrMoneyOverflow, m, n)
	}
	return Money(product), nil
}

// Decimal renders the amount in major units for the given precision.
func (m Money) Decimal(precision int32) decimal.Decimal {
	return decimal.New(int64(m), -precision)
}

// Abs returns the absolute value.
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

func (m Money) String() string {
	return fmt.Sprintf("%d", int64(m))
}
