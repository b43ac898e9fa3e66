package decimal

import (
	"math/big"

	"github.com/govalues/decimal"
)

func LT(a, b decimal.Decimal) bool {
	return a.Cmp(b) < 0
}

// Rat converts a decimal into the exact rational coef / 10^scale.
func Rat(d decimal.Decimal) *big.Rat {
	num := new(big.Int).SetUint64(d.Coef())
	if d.IsNeg() {
		num.Neg(num)
	}
	den := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Scale())), nil)
	return new(big.Rat).SetFrac(num, den)
}
