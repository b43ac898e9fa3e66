package sorting_test

import (
	"math/big"
	"testing"

	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dora-network/order-utils/errors"
	"github.com/dora-network/order-utils/order"
	"github.com/dora-network/order-utils/sorting"
)

func newOrder(salt, makerAmount, takerAmount, takerFee int64) order.Order {
	o := order.Empty(1)
	o.MakerAssetAmount = big.NewInt(makerAmount)
	o.TakerAssetAmount = big.NewInt(takerAmount)
	o.TakerFee = big.NewInt(takerFee)
	o.Salt = big.NewInt(salt)
	o.MakerAssetData = []byte{0x01}
	o.TakerAssetData = []byte{0x02}
	return o
}

func salts(orders []order.Order) []int64 {
	out := make([]int64, len(orders))
	for i, o := range orders {
		out[i] = o.Salt.Int64()
	}
	return out
}

func TestSortByFeeAdjustedRate(t *testing.T) {
	orders := []order.Order{
		newOrder(1, 100, 60, 0),  // 0.6
		newOrder(2, 100, 40, 30), // 0.4, 0.7 with fee rate 1
		newOrder(3, 100, 50, 0),  // 0.5
	}

	tcs := []struct {
		title   string
		feeRate string
		exp     []int64
	}{
		{"fees ignored", "0", []int64{2, 3, 1}},
		{"fees priced in", "1", []int64{3, 1, 2}},
	}
	for _, tc := range tcs {
		t.Run(tc.title, func(t *testing.T) {
			sorted, err := sorting.SortByFeeAdjustedRate(orders, decimal.MustParse(tc.feeRate))
			require.NoError(t, err)
			assert.Equal(t, tc.exp, salts(sorted))
		})
	}
	// input untouched
	assert.Equal(t, []int64{1, 2, 3}, salts(orders))
}

func TestSortByFeeAdjustedRate_Stable(t *testing.T) {
	orders := []order.Order{
		newOrder(1, 100, 50, 0),
		newOrder(2, 10, 4, 0),
		newOrder(3, 200, 100, 0),
		newOrder(4, 2, 1, 0),
	}
	sorted, err := sorting.SortByFeeAdjustedRate(orders, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1, 3, 4}, salts(sorted))
}

func TestSortByFeeAdjustedRate_DeepCopy(t *testing.T) {
	orders := []order.Order{newOrder(1, 100, 50, 0)}
	sorted, err := sorting.SortByFeeAdjustedRate(orders, decimal.Zero)
	require.NoError(t, err)
	sorted[0].MakerAssetAmount.SetInt64(1)
	sorted[0].MakerAssetData[0] = 0xff
	assert.Equal(t, "100", orders[0].MakerAssetAmount.String())
	assert.Equal(t, byte(0x01), orders[0].MakerAssetData[0])
}

func TestSortByFeeAdjustedRate_Errors(t *testing.T) {
	orders := []order.Order{newOrder(1, 100, 50, 0)}
	_, err := sorting.SortByFeeAdjustedRate(orders, decimal.MustParse("-1"))
	assert.True(t, errors.Is(err, errors.ValidationErr))

	bad := newOrder(2, 100, 50, 0)
	bad.TakerAssetData = nil
	sorted, err := sorting.SortByFeeAdjustedRate(append(orders, bad), decimal.Zero)
	assert.True(t, errors.Is(err, errors.SchemaErr))
	assert.Nil(t, sorted)
}

func TestSortFeeOrdersByFeeAdjustedRate(t *testing.T) {
	feeOrders := []order.Order{
		newOrder(1, 100, 50, 50), // 50/50 = 1
		newOrder(2, 100, 60, 0),  // 0.6
		newOrder(3, 100, 45, 10), // 0.5
	}
	sorted, err := sorting.SortFeeOrdersByFeeAdjustedRate(feeOrders)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, salts(sorted))

	_, err = sorting.SortFeeOrdersByFeeAdjustedRate(append(feeOrders, newOrder(4, 100, 50, 100)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ArithmeticErr))
}

func TestSortOrdersWithAmounts(t *testing.T) {
	orders := []order.Order{
		newOrder(1, 100, 60, 0),
		newOrder(2, 100, 40, 0),
		newOrder(3, 100, 50, 0),
	}
	amounts := []*big.Int{big.NewInt(11), big.NewInt(22), big.NewInt(33)}

	sorted, sortedAmounts, err := sorting.SortOrdersWithAmounts(orders, amounts, func(o order.Order) (*big.Rat, error) {
		return new(big.Rat).SetFrac(o.TakerAssetAmount, o.MakerAssetAmount), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 1}, salts(sorted))
	require.Len(t, sortedAmounts, 3)
	assert.Equal(t, "22", sortedAmounts[0].String())
	assert.Equal(t, "33", sortedAmounts[1].String())
	assert.Equal(t, "11", sortedAmounts[2].String())

	sortedAmounts[0].SetInt64(0)
	assert.Equal(t, "22", amounts[1].String())

	_, _, err = sorting.SortOrdersWithAmounts(orders, amounts[:2], nil)
	assert.True(t, errors.Is(err, errors.LengthMismatchErr))
}
