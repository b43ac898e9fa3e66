package sorting

import (
	"math/big"
	"sort"

	"github.com/govalues/decimal"

	"github.com/dora-network/order-utils/errors"
	"github.com/dora-network/order-utils/math"
	"github.com/dora-network/order-utils/order"
	"github.com/dora-network/order-utils/rates"
	"github.com/dora-network/order-utils/validation"
)

// SortByFeeAdjustedRate returns a copy of orders, cheapest fee-adjusted rate first.
func SortByFeeAdjustedRate(orders []order.Order, feeRate decimal.Decimal) ([]order.Order, error) {
	if err := validation.ValidateFeeRate(feeRate); err != nil {
		return nil, err
	}
	return SortOrders(orders, rates.OrderRate(feeRate))
}

// SortFeeOrdersByFeeAdjustedRate returns a copy of feeOrders, cheapest fee token net of its own fee first.
func SortFeeOrdersByFeeAdjustedRate(feeOrders []order.Order) ([]order.Order, error) {
	return SortOrders(feeOrders, rates.FeeOrderRate)
}

// SortOrders returns a deep copy of orders sorted ascending by rateFn. Orders with equal rates keep their
// relative input order.
func SortOrders(orders []order.Order, rateFn rates.RateFunc) ([]order.Order, error) {
	sorted, _, err := sortOrders(orders, nil, rateFn)
	return sorted, err
}

// SortOrdersWithAmounts sorts like SortOrders and applies the same permutation to amounts, which must be
// aligned with orders.
func SortOrdersWithAmounts(
	orders []order.Order,
	amounts []*big.Int,
	rateFn rates.RateFunc,
) ([]order.Order, []*big.Int, error) {
	if len(amounts) != len(orders) {
		return nil, nil, errors.LengthMismatch("amounts has %d entries, expected %d", len(amounts), len(orders))
	}
	return sortOrders(orders, amounts, rateFn)
}

type entry struct {
	order  order.Order
	amount *big.Int
	rate   *big.Rat
}

func sortOrders(orders []order.Order, amounts []*big.Int, rateFn rates.RateFunc) ([]order.Order, []*big.Int, error) {
	if err := validation.ValidateOrders(validation.Default(), "orders", orders); err != nil {
		return nil, nil, err
	}
	entries := make([]entry, len(orders))
	for i, o := range orders {
		rate, err := rateFn(o)
		if err != nil {
			return nil, nil, err
		}
		entries[i] = entry{order: o.Clone(), rate: rate}
		if amounts != nil {
			entries[i].amount = math.Copy(amounts[i])
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].rate.Cmp(entries[j].rate) < 0
	})

	sorted := make([]order.Order, len(entries))
	var sortedAmounts []*big.Int
	if amounts != nil {
		sortedAmounts = make([]*big.Int, len(entries))
	}
	for i, e := range entries {
		sorted[i] = e.order
		if sortedAmounts != nil {
			sortedAmounts[i] = e.amount
		}
	}
	return sorted, sortedAmounts, nil
}
