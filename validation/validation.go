package validation

import (
	"math/big"

	"github.com/govalues/decimal"

	"github.com/dora-network/order-utils/errors"
	mdecimal "github.com/dora-network/order-utils/math/decimal"
)

// ValidateFeeRate accepts any non-negative decimal.
func ValidateFeeRate(value interface{}) error {
	v, ok := value.(decimal.Decimal)
	if !ok {
		return errors.ErrInvalidInput
	}
	if mdecimal.LT(v, decimal.Zero) {
		return errors.ErrFeeRateMustNotBeNegative
	}
	return nil
}

// ValidateBaseUnitAmount accepts a non-nil, non-negative *big.Int.
func ValidateBaseUnitAmount(value interface{}) error {
	v, ok := value.(*big.Int)
	if !ok {
		return errors.ErrInvalidInput
	}
	if v == nil {
		return errors.ErrAmountMustNotBeNil
	}
	if v.Sign() < 0 {
		return errors.Validation("amount %s must be greater than or equal to 0", v)
	}
	return nil
}

// ValidateBaseUnitAmounts validates each amount, naming the offending index on failure.
func ValidateBaseUnitAmounts(name string, amounts []*big.Int) error {
	for i, a := range amounts {
		if err := ValidateBaseUnitAmount(a); err != nil {
			return errors.Wrap(errors.ValidationErr, err, fmtIndex(name, i))
		}
	}
	return nil
}

// ValidateSnapshot checks a liquidity snapshot is aligned with n orders and holds only valid amounts.
func ValidateSnapshot(name string, n int, snapshot []*big.Int) error {
	if len(snapshot) != n {
		return errors.LengthMismatch("%s has %d entries, expected %d", name, len(snapshot), n)
	}
	return ValidateBaseUnitAmounts(name, snapshot)
}
