package math

import (
	"math/big"

	"github.com/dora-network/order-utils/errors"
)

const (
	Base10 = 10
)

// MaxUint256 is the largest amount the settlement contract can represent, 2^256 - 1.
var MaxUint256 = Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

func IsNegative(n *big.Int) bool {
	return n != nil && n.Sign() == -1
}

func IsPositive(n *big.Int) bool {
	return n != nil && n.Sign() > 0
}

func IsZero(n *big.Int) bool {
	return n != nil && n.Sign() == 0
}

func LT(x, y *big.Int) bool {
	return x != nil && y != nil && x.Cmp(y) == -1
}

func EQ(x, y *big.Int) bool {
	return x != nil && y != nil && x.Cmp(y) == 0
}

func GT(x, y *big.Int) bool {
	return x != nil && y != nil && x.Cmp(y) == 1
}

func LTE(x, y *big.Int) bool {
	return EQ(x, y) || LT(x, y)
}

func GTE(x, y *big.Int) bool {
	return EQ(x, y) || GT(x, y)
}

func ZeroBigInt() *big.Int {
	return big.NewInt(0)
}

// ValidBigInts validates if the values are all valid big int.
func ValidBigInts(values ...string) (bigValues []*big.Int, err error) {
	bigValues = make([]*big.Int, len(values))
	for i, v := range values {
		bigValue, err := ValidBigInt(v)
		if err != nil {
			return nil, err
		}

		bigValues[i] = bigValue
	}
	return bigValues, nil
}

// ValidNotNegativeBigInt validates if the value is a valid and not negative big int.
// Valid values: [0-∞].
func ValidNotNegativeBigInt(value string) (v *big.Int, err error) {
	v, err = ValidBigInt(value)
	if err != nil {
		return nil, err
	}
	if IsNegative(v) {
		return nil, errors.Validation("%s is negative", value)
	}
	return v, nil
}

// ValidBigInt validates if the value is a valid big int.
func ValidBigInt(value string) (v *big.Int, err error) {
	v, ok := new(big.Int).SetString(value, Base10)
	if !ok {
		return nil, errors.Validation("%s is not a valid big.Int", value)
	}
	return v, nil
}

// Min returns the smaller of a or b
func Min(a, b *big.Int) *big.Int {
	if LT(a, b) {
		return a
	}
	return b
}
