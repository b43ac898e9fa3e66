package market

import (
	"fmt"
	"math/big"

	"github.com/dora-network/order-utils/calculation"
	"github.com/dora-network/order-utils/errors"
	"github.com/dora-network/order-utils/math"
	"github.com/dora-network/order-utils/order"
	"github.com/dora-network/order-utils/validation"
)

// FeeSelection is the result of resolving fee orders for a set of target fills.
type FeeSelection struct {
	FeeOrders            []order.Order
	AttributedFeeAmounts []*big.Int
	RemainingFeeAmount   *big.Int
	// TotalFeeAmount is the fee owed by the target fills, before the slippage buffer.
	TotalFeeAmount *big.Int
	// TotalFillAmount is TotalFeeAmount plus the slippage buffer.
	TotalFillAmount *big.Int
}

// Selection returns the fee selection in the shape of a target selection.
func (f FeeSelection) Selection() Selection {
	return Selection{
		Orders:              f.FeeOrders,
		AttributedAmounts:   f.AttributedFeeAmounts,
		RemainingFillAmount: f.RemainingFeeAmount,
		TotalFillAmount:     f.TotalFillAmount,
	}
}

// FeeOptions are the optional inputs to FindFeeOrdersThatCoverFeesForTargetOrders.
type FeeOptions struct {
	// RemainingFillableMakerAssetAmounts defaults to the target orders' makerAssetAmount.
	RemainingFillableMakerAssetAmounts []*big.Int
	// RemainingFillableFeeAmounts defaults to the fee orders' makerAssetAmount.
	RemainingFillableFeeAmounts []*big.Int
	// SlippageBufferAmount defaults to zero.
	SlippageBufferAmount *big.Int
}

// TotalFeeOwed sums the taker fee owed for filling attributed[i] of orders[i], rounded down per order.
// For Buy the amounts are maker units and the fee is attributed * takerFee / makerAssetAmount.
// For Sell they are taker units and the fee is attributed * takerFee / takerAssetAmount.
func TotalFeeOwed(op Operation, orders []order.Order, attributed []*big.Int) (*big.Int, error) {
	if err := validation.ValidateSnapshot("attributedAmounts", len(orders), attributed); err != nil {
		return nil, err
	}
	total := math.ZeroBigInt()
	for i, o := range orders {
		var (
			fee *big.Int
			err error
		)
		if op == Sell {
			fee, err = calculation.TakerFeeAmount(o, attributed[i])
		} else {
			fee, err = feeForMakerFill(o, attributed[i])
		}
		if err != nil {
			return nil, fmt.Errorf("orders[%d]: %w", i, err)
		}
		total = math.Add(total, fee)
	}
	return total, nil
}

func feeForMakerFill(o order.Order, makerFill *big.Int) (*big.Int, error) {
	if o.TakerFee == nil {
		return nil, errors.ErrAmountMustNotBeNil
	}
	fee, err := math.MulDiv(makerFill, o.TakerFee, o.MakerAssetAmount, math.RoundFloor)
	if err != nil {
		return nil, errors.Wrap(errors.ArithmeticErr, err, "makerAssetAmount")
	}
	return fee, nil
}

// ResolveFeeOrders computes the fee owed by the target orders for the maker amounts attributed to them, then
// selects fee orders to cover it. Fee orders are scanned in the given order.
// The fee the selected fee orders charge on themselves is not included in the amount covered.
func ResolveFeeOrders(
	targetOrders []order.Order,
	targetAttributed []*big.Int,
	feeOrders []order.Order,
	feeSnapshot []*big.Int,
	feeSlippageBuffer *big.Int,
) (FeeSelection, error) {
	return resolveFeeOrders(Buy, targetOrders, targetAttributed, feeOrders, feeSnapshot, feeSlippageBuffer)
}

func resolveFeeOrders(
	op Operation,
	targetOrders []order.Order,
	targetAttributed []*big.Int,
	feeOrders []order.Order,
	feeSnapshot []*big.Int,
	feeSlippageBuffer *big.Int,
) (FeeSelection, error) {
	if err := validation.ValidateOrders(validation.Default(), "orders", targetOrders); err != nil {
		return FeeSelection{}, err
	}
	owed, err := TotalFeeOwed(op, targetOrders, targetAttributed)
	if err != nil {
		return FeeSelection{}, err
	}
	selection, err := SelectOrdersForFill(feeOrders, feeSnapshot, owed, feeSlippageBuffer)
	if err != nil {
		return FeeSelection{}, err
	}
	return FeeSelection{
		FeeOrders:            selection.Orders,
		AttributedFeeAmounts: selection.AttributedAmounts,
		RemainingFeeAmount:   selection.RemainingFillAmount,
		TotalFeeAmount:       owed,
		TotalFillAmount:      selection.TotalFillAmount,
	}, nil
}

// FindFeeOrdersThatCoverFeesForTargetOrders selects fee orders that cover the taker fees of filling orders up to
// their remaining fillable maker amounts.
func FindFeeOrdersThatCoverFeesForTargetOrders(
	orders []order.Order,
	feeOrders []order.Order,
	opts FeeOptions,
) (FeeSelection, error) {
	makerAmounts := opts.RemainingFillableMakerAssetAmounts
	if makerAmounts == nil {
		makerAmounts = DefaultRemainingFillableAmounts(orders, Buy)
	}
	feeAmounts := opts.RemainingFillableFeeAmounts
	if feeAmounts == nil {
		feeAmounts = DefaultRemainingFillableAmounts(feeOrders, Buy)
	}
	return ResolveFeeOrders(orders, makerAmounts, feeOrders, feeAmounts, opts.SlippageBufferAmount)
}

// ResolveFeeOrdersForOperation is ResolveFeeOrders for target amounts measured in the unit of op.
func ResolveFeeOrdersForOperation(
	op Operation,
	targetOrders []order.Order,
	targetAttributed []*big.Int,
	feeOrders []order.Order,
	feeSnapshot []*big.Int,
	feeSlippageBuffer *big.Int,
) (FeeSelection, error) {
	return resolveFeeOrders(op, targetOrders, targetAttributed, feeOrders, feeSnapshot, feeSlippageBuffer)
}
