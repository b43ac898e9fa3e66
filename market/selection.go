package market

import (
	"math/big"

	"github.com/dora-network/order-utils/errors"
	"github.com/dora-network/order-utils/math"
	"github.com/dora-network/order-utils/order"
	"github.com/dora-network/order-utils/validation"
)

// Selection is the result of a fill selection. Orders and AttributedAmounts are aligned.
type Selection struct {
	Orders []order.Order
	// AttributedAmounts holds each included order's full available liquidity, not the portion still needed
	// when it was reached. The last order can therefore be over-attributed; see TrimmedAmounts.
	AttributedAmounts []*big.Int
	// RemainingFillAmount is the part of TotalFillAmount no included order covered.
	RemainingFillAmount *big.Int
	// TotalFillAmount is the target plus the slippage buffer.
	TotalFillAmount *big.Int
}

// IsFullyCovered is true if the selected liquidity covers the total fill amount.
func (s Selection) IsFullyCovered() bool {
	return math.IsZero(s.RemainingFillAmount)
}

// CoveredAmount is the part of TotalFillAmount the selected orders cover.
func (s Selection) CoveredAmount() *big.Int {
	return math.Sub(s.TotalFillAmount, s.RemainingFillAmount)
}

// TrimmedAmounts returns the attributed amounts with any liquidity past the total fill amount removed
// from the tail. These are the amounts to execute to fill exactly TotalFillAmount.
func (s Selection) TrimmedAmounts() []*big.Int {
	need := math.Copy(s.TotalFillAmount)
	out := make([]*big.Int, len(s.AttributedAmounts))
	for i, a := range s.AttributedAmounts {
		take := math.Min(a, need)
		out[i] = math.Copy(take)
		need = math.Sub(need, take)
	}
	return out
}

// SelectOrdersForFill walks orders in the given order and includes each one with positive liquidity until
// target plus slippageBuffer is covered. snapshot[i] is the liquidity available on orders[i], in the unit
// target is expressed in. Orders are never reordered; sort them first to prefer cheaper ones.
// A nil slippageBuffer is treated as zero.
func SelectOrdersForFill(orders []order.Order, snapshot []*big.Int, target, slippageBuffer *big.Int) (Selection, error) {
	if slippageBuffer == nil {
		slippageBuffer = math.ZeroBigInt()
	}
	if err := validation.ValidateOrders(validation.Default(), "orders", orders); err != nil {
		return Selection{}, err
	}
	if err := validation.ValidateBaseUnitAmount(target); err != nil {
		return Selection{}, errors.Wrap(errors.ValidationErr, err, "target")
	}
	if err := validation.ValidateBaseUnitAmount(slippageBuffer); err != nil {
		return Selection{}, errors.Wrap(errors.ValidationErr, err, "slippageBufferAmount")
	}
	if err := validation.ValidateSnapshot("remainingFillableAmounts", len(orders), snapshot); err != nil {
		return Selection{}, err
	}

	total := math.Add(target, slippageBuffer)
	remaining := math.Copy(total)
	selection := Selection{
		Orders:            []order.Order{},
		AttributedAmounts: []*big.Int{},
		TotalFillAmount:   total,
	}
	for i, o := range orders {
		if remaining.Sign() <= 0 {
			break
		}
		available := snapshot[i]
		if available.Sign() <= 0 {
			continue
		}
		selection.Orders = append(selection.Orders, o.Clone())
		selection.AttributedAmounts = append(selection.AttributedAmounts, math.Copy(available))
		remaining = math.SubToZero(remaining, available)
	}
	selection.RemainingFillAmount = remaining
	return selection, nil
}
