package math

import (
	"math/big"

	"github.com/dora-network/order-utils/errors"
)

/*
	This file is designed to simplify math/big syntax.

	Before:
		a.Add(a,b)
		c = big.NewInt(0).Add(a,b)
		d = a.Add(b).Add(c)

	After:
		a = math.Add(a,b)
		c = math.Add(a,b)
		d = math.Add(a,b,c)

	None of the helpers mutate their arguments; every result is a freshly allocated value.
*/

// RoundingMode selects how an integer division discards its remainder.
type RoundingMode int

const (
	// RoundFloor rounds toward negative infinity.
	RoundFloor RoundingMode = iota
	// RoundCeil rounds toward positive infinity.
	RoundCeil
	// RoundTruncate rounds toward zero.
	RoundTruncate
)

func (m RoundingMode) String() string {
	switch m {
	case RoundFloor:
		return "floor"
	case RoundCeil:
		return "ceil"
	case RoundTruncate:
		return "truncate"
	default:
		return "unspecified"
	}
}

// Add any amount of big.Ints together
func Add(ints ...*big.Int) *big.Int {
	sum := big.NewInt(0)
	for _, n := range ints {
		sum.Add(sum, n)
	}
	return sum
}

// Sub any amount of big.Ints from an initial value
func Sub(i *big.Int, ints ...*big.Int) *big.Int {
	diff := new(big.Int).Set(i)
	for _, n := range ints {
		diff.Sub(diff, n)
	}
	return diff
}

// SubToZero subtracts b from a, returning zero instead of a negative result.
func SubToZero(a, b *big.Int) *big.Int {
	d := Sub(a, b)
	if d.Sign() < 0 {
		return ZeroBigInt()
	}
	return d
}

// Mul any amount of big.Ints together
func Mul(ints ...*big.Int) *big.Int {
	product := big.NewInt(1)
	for _, n := range ints {
		product.Mul(product, n)
	}
	return product
}

// Quo divides a by b and rounds the quotient with the given mode.
// Errors with an arithmetic error if b is not positive.
func Quo(a, b *big.Int, mode RoundingMode) (*big.Int, error) {
	if !IsPositive(b) {
		return nil, errors.Arithmetic("divisor %s must be positive", str(b))
	}
	// big.Int.Quo truncates toward zero, Div is euclidean (floor for positive divisors).
	switch mode {
	case RoundTruncate:
		return new(big.Int).Quo(a, b), nil
	case RoundCeil:
		q, m := new(big.Int).DivMod(a, b, new(big.Int))
		if m.Sign() != 0 {
			q.Add(q, big.NewInt(1))
		}
		return q, nil
	default:
		return new(big.Int).Div(a, b), nil
	}
}

// MulDiv computes a * b / c with a single rounding step at the end.
func MulDiv(a, b, c *big.Int, mode RoundingMode) (*big.Int, error) {
	return Quo(Mul(a, b), c, mode)
}

// Rat builds the exact rational num/den. Errors if den is not positive.
func Rat(num, den *big.Int) (*big.Rat, error) {
	if !IsPositive(den) {
		return nil, errors.Arithmetic("denominator %s must be positive", str(den))
	}
	return new(big.Rat).SetFrac(num, den), nil
}

// AddR any amount of big.Rats together
func AddR(rats ...*big.Rat) *big.Rat {
	sum := new(big.Rat)
	for _, r := range rats {
		sum.Add(sum, r)
	}
	return sum
}

// MulR any amount of big.Rats together
func MulR(rats ...*big.Rat) *big.Rat {
	product := big.NewRat(1, 1)
	for _, r := range rats {
		product.Mul(product, r)
	}
	return product
}

// Copy returns a new big.Int holding the same value, or nil for nil.
func Copy(i *big.Int) *big.Int {
	if i == nil {
		return nil
	}
	return new(big.Int).Set(i)
}

func str(i *big.Int) string {
	if i == nil {
		return "<nil>"
	}
	return i.String()
}
