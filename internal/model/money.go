package model

import (
	"errors"
	"fmt"
	"math"
)

// MaxAmount bounds amounts taken from outside the program, well inside int64 cents.
const MaxAmount = 1e13

// ErrAmountOutOfRange is returned for NaN, infinite or oversized amounts.
var ErrAmountOutOfRange = errors.New("amount out of range")

// Money is an amount of currency held in integer cents.
// Sums of Money values are exact; rounding only happens at the float boundary.
type Money int64

// MoneyFromFloat converts a decimal amount to cents, rounding half away from zero.
func MoneyFromFloat(f float64) Money {
	return Money(math.Round(f * 100))
}

// CheckedMoneyFromFloat is MoneyFromFloat for untrusted input: the magnitude
// must not exceed MaxAmount.
func CheckedMoneyFromFloat(f float64) (Money, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > MaxAmount {
		return 0, fmt.Errorf("%w: %g", ErrAmountOutOfRange, f)
	}
	return MoneyFromFloat(f), nil
}

// Cents returns the raw number of cents.
func (m Money) Cents() int64 {
	return int64(m)
}

// Float64 returns the amount in whole currency units.
func (m Money) Float64() float64 {
	return float64(m) / 100
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m > 0
}

// String formats the amount with exactly two decimal places.
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
