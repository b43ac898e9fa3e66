// Package calculation converts between the maker, taker and fee quantities of a single order.
// Each conversion rounds in the direction the settlement contract does, so results match on-chain integer math.
package calculation

import (
	"math/big"

	"github.com/dora-network/order-utils/errors"
	"github.com/dora-network/order-utils/math"
	"github.com/dora-network/order-utils/order"
	"github.com/dora-network/order-utils/validation"
)

// MakerFillAmount returns the maker asset received for takerFill of taker asset, rounded down.
func MakerFillAmount(o order.Order, takerFill *big.Int) (*big.Int, error) {
	if err := validation.ValidateBaseUnitAmount(takerFill); err != nil {
		return nil, err
	}
	return mulDiv(takerFill, o.MakerAssetAmount, o.TakerAssetAmount, math.RoundFloor, "takerAssetAmount")
}

// TakerFillAmount returns the taker asset required to receive makerFill of maker asset, rounded up.
func TakerFillAmount(o order.Order, makerFill *big.Int) (*big.Int, error) {
	if err := validation.ValidateBaseUnitAmount(makerFill); err != nil {
		return nil, err
	}
	return mulDiv(makerFill, o.TakerAssetAmount, o.MakerAssetAmount, math.RoundCeil, "makerAssetAmount")
}

// TakerFeeAmount returns the fee the taker pays for filling takerFill, rounded down.
func TakerFeeAmount(o order.Order, takerFill *big.Int) (*big.Int, error) {
	if err := validation.ValidateBaseUnitAmount(takerFill); err != nil {
		return nil, err
	}
	return mulDiv(takerFill, o.TakerFee, o.TakerAssetAmount, math.RoundFloor, "takerAssetAmount")
}

// MakerFeeAmount returns the fee the maker pays when makerFill of its asset is filled, rounded down.
func MakerFeeAmount(o order.Order, makerFill *big.Int) (*big.Int, error) {
	if err := validation.ValidateBaseUnitAmount(makerFill); err != nil {
		return nil, err
	}
	return mulDiv(makerFill, o.MakerFee, o.MakerAssetAmount, math.RoundFloor, "makerAssetAmount")
}

// TakerFillAmountForFeeOrder returns the taker asset needed from a fee order to net desiredMakerFill of the fee
// token after the order's own taker fee, rounded up. makerFill is the fee token actually obtained for that
// taker amount and can exceed desiredMakerFill.
func TakerFillAmountForFeeOrder(o order.Order, desiredMakerFill *big.Int) (takerFill, makerFill *big.Int, err error) {
	if err := validation.ValidateBaseUnitAmount(desiredMakerFill); err != nil {
		return nil, nil, err
	}
	if o.MakerAssetAmount == nil || o.TakerFee == nil {
		return nil, nil, errors.ErrAmountMustNotBeNil
	}
	net := math.Sub(o.MakerAssetAmount, o.TakerFee)
	if !math.IsPositive(net) {
		return nil, nil, errors.Wrap(
			errors.ArithmeticErr,
			errors.ErrFeeOrderCannotNetFee,
			"makerAssetAmount "+o.MakerAssetAmount.String()+", takerFee "+o.TakerFee.String(),
		)
	}
	takerFill, err = mulDiv(desiredMakerFill, o.TakerAssetAmount, net, math.RoundCeil, "makerAssetAmount - takerFee")
	if err != nil {
		return nil, nil, err
	}
	makerFill, err = MakerFillAmount(o, takerFill)
	if err != nil {
		return nil, nil, err
	}
	return takerFill, makerFill, nil
}

func mulDiv(a, b, c *big.Int, mode math.RoundingMode, divisor string) (*big.Int, error) {
	if b == nil || c == nil {
		return nil, errors.ErrAmountMustNotBeNil
	}
	out, err := math.MulDiv(a, b, c, mode)
	if err != nil {
		return nil, errors.Wrap(errors.ArithmeticErr, err, divisor)
	}
	return out, nil
}
