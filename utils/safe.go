// Package utils provides randomness, hashing and checked arithmetic helpers.
// This file contains the overflow-checked arithmetic used while building keys.

package utils

import (
	"math"

	"github.com/pkg/errors"
)

// MaxPrimeBound keeps p*q well inside int64 so products never overflow.
const MaxPrimeBound = 1 << 31

var (
	// ErrOverflow indicates an integer overflow occurred.
	ErrOverflow = errors.New("integer overflow")

	// ErrOutOfRange indicates a value lies outside its allowed interval.
	ErrOutOfRange = errors.New("value out of range")
)

// SafeMultiply multiplies two non-negative integers and returns an error if overflow occurs.
func SafeMultiply(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, errors.Wrapf(ErrOutOfRange, "negative operand %d * %d", a, b)
	}
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxInt64/b {
		return 0, ErrOverflow
	}
	return a * b, nil
}

// CheckPositive validates that value is > 0.
func CheckPositive(value int64, name string) error {
	if value <= 0 {
		return errors.Errorf("%s must be positive, got %d", name, value)
	}
	return nil
}

// CheckRange validates that value lies within [min, max].
func CheckRange(value, min, max int64, name string) error {
	if value < min || value > max {
		return errors.Wrapf(ErrOutOfRange, "%s=%d not in [%d, %d]", name, value, min, max)
	}
	return nil
}
