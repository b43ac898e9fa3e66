package market

import (
	"fmt"
	"math/big"

	"github.com/dora-network/order-utils/math"
	"github.com/dora-network/order-utils/order"
)

// Operation names the side of the order amounts a fill is measured in.
type Operation string

const (
	Unspecified Operation = "unspecified"
	// Buy fills are measured in maker asset units.
	Buy Operation = "buy"
	// Sell fills are measured in taker asset units.
	Sell Operation = "sell"
)

func ParseOperation(s string) (Operation, error) {
	switch Operation(s) {
	case Buy, Sell:
		return Operation(s), nil
	default:
		return Unspecified, fmt.Errorf("unknown operation %q", s)
	}
}

// FillOptions are the optional inputs to the FindOrdersThatCover functions.
type FillOptions struct {
	// RemainingFillableAmounts defaults to each order's nominal amount for the operation.
	RemainingFillableAmounts []*big.Int
	// SlippageBufferAmount defaults to zero.
	SlippageBufferAmount *big.Int
}

// DefaultRemainingFillableAmounts returns each order's nominal amount in the unit of op.
func DefaultRemainingFillableAmounts(orders []order.Order, op Operation) []*big.Int {
	out := make([]*big.Int, len(orders))
	for i, o := range orders {
		if op == Sell {
			out[i] = math.Copy(o.TakerAssetAmount)
		} else {
			out[i] = math.Copy(o.MakerAssetAmount)
		}
	}
	return out
}

// FindOrdersThatCoverMakerAssetFillAmount selects orders that together offer makerAssetFillAmount of maker asset.
func FindOrdersThatCoverMakerAssetFillAmount(
	orders []order.Order,
	makerAssetFillAmount *big.Int,
	opts FillOptions,
) (Selection, error) {
	return findOrdersThatCover(orders, makerAssetFillAmount, Buy, opts)
}

// FindOrdersThatCoverTakerAssetFillAmount selects orders that together accept takerAssetFillAmount of taker asset.
func FindOrdersThatCoverTakerAssetFillAmount(
	orders []order.Order,
	takerAssetFillAmount *big.Int,
	opts FillOptions,
) (Selection, error) {
	return findOrdersThatCover(orders, takerAssetFillAmount, Sell, opts)
}

func findOrdersThatCover(orders []order.Order, amount *big.Int, op Operation, opts FillOptions) (Selection, error) {
	snapshot := opts.RemainingFillableAmounts
	if snapshot == nil {
		snapshot = DefaultRemainingFillableAmounts(orders, op)
	}
	return SelectOrdersForFill(orders, snapshot, amount, opts.SlippageBufferAmount)
}
