// Package rates computes fee-adjusted exchange rates, expressed as taker units per maker unit.
// Rates are exact rationals; rounding only happens once amounts are derived from them.
package rates

import (
	"math/big"

	"github.com/govalues/decimal"

	"github.com/dora-network/order-utils/errors"
	"github.com/dora-network/order-utils/math"
	dec "github.com/dora-network/order-utils/math/decimal"
	"github.com/dora-network/order-utils/order"
	"github.com/dora-network/order-utils/validation"
)

// RateFunc maps an order to the key it is sorted by.
type RateFunc func(o order.Order) (*big.Rat, error)

// RateOfOrder returns (takerAssetAmount + takerFee * feeRate) / makerAssetAmount.
// feeRate is the price of one fee token in taker asset units; the zero value ignores fees.
func RateOfOrder(o order.Order, feeRate decimal.Decimal) (*big.Rat, error) {
	if err := validation.ValidateFeeRate(feeRate); err != nil {
		return nil, err
	}
	if o.TakerAssetAmount == nil || o.TakerFee == nil {
		return nil, errors.ErrAmountMustNotBeNil
	}
	rate, err := math.Rat(o.TakerAssetAmount, o.MakerAssetAmount)
	if err != nil {
		return nil, errors.Wrap(errors.ArithmeticErr, err, "makerAssetAmount")
	}
	if feeRate.IsZero() || o.TakerFee.Sign() == 0 {
		return rate, nil
	}
	feeCost := math.MulR(new(big.Rat).SetInt(o.TakerFee), dec.Rat(feeRate))
	perMaker := new(big.Rat).Quo(feeCost, new(big.Rat).SetInt(o.MakerAssetAmount))
	return math.AddR(rate, perMaker), nil
}

// RateOfFeeOrder returns takerAssetAmount / (makerAssetAmount - takerFee), the price of fee token net of the
// fee the order charges on itself.
func RateOfFeeOrder(o order.Order) (*big.Rat, error) {
	if o.MakerAssetAmount == nil || o.TakerAssetAmount == nil || o.TakerFee == nil {
		return nil, errors.ErrAmountMustNotBeNil
	}
	net := math.Sub(o.MakerAssetAmount, o.TakerFee)
	if !math.IsPositive(net) {
		return nil, errors.Wrap(
			errors.ArithmeticErr,
			errors.ErrFeeOrderCannotNetFee,
			"makerAssetAmount "+o.MakerAssetAmount.String()+", takerFee "+o.TakerFee.String(),
		)
	}
	return new(big.Rat).SetFrac(o.TakerAssetAmount, net), nil
}

// OrderRate partially applies RateOfOrder.
func OrderRate(feeRate decimal.Decimal) RateFunc {
	return func(o order.Order) (*big.Rat, error) {
		return RateOfOrder(o, feeRate)
	}
}

// FeeOrderRate is RateOfFeeOrder as a RateFunc.
var FeeOrderRate RateFunc = RateOfFeeOrder
