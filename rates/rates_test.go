package rates_test

import (
	"math/big"
	"testing"

	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dora-network/order-utils/errors"
	"github.com/dora-network/order-utils/order"
	"github.com/dora-network/order-utils/rates"
)

func newOrder(makerAmount, takerAmount, takerFee int64) order.Order {
	o := order.Empty(1)
	o.MakerAssetAmount = big.NewInt(makerAmount)
	o.TakerAssetAmount = big.NewInt(takerAmount)
	o.TakerFee = big.NewInt(takerFee)
	return o
}

func TestRateOfOrder(t *testing.T) {
	tcs := []struct {
		title   string
		order   order.Order
		feeRate string
		exp     string
	}{
		{"no fee rate", newOrder(100, 50, 10), "0", "1/2"},
		{"zero taker fee", newOrder(100, 50, 0), "3", "1/2"},
		{"integer fee rate", newOrder(100, 50, 10), "2", "7/10"},
		{"fractional fee rate", newOrder(100, 50, 10), "0.5", "11/20"},
		{"tiny fee rate stays exact", newOrder(3, 1, 1), "0.000000000000000001", "1000000000000000001/3000000000000000000"},
	}
	for _, tc := range tcs {
		t.Run(tc.title, func(t *testing.T) {
			got, err := rates.RateOfOrder(tc.order, decimal.MustParse(tc.feeRate))
			require.NoError(t, err)
			assert.Equal(t, tc.exp, got.String())
		})
	}
}

func TestRateOfOrder_Errors(t *testing.T) {
	_, err := rates.RateOfOrder(newOrder(100, 50, 1), decimal.MustParse("-1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ValidationErr))

	_, err = rates.RateOfOrder(newOrder(0, 50, 1), decimal.Zero)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ArithmeticErr))
}

func TestRateOfFeeOrder(t *testing.T) {
	tcs := []struct {
		title  string
		order  order.Order
		exp    string
		expErr bool
	}{
		{title: "no fee", order: newOrder(100, 50, 0), exp: "1/2"},
		{title: "fee reduces net", order: newOrder(100, 50, 50), exp: "1/1"},
		{title: "fee equals maker amount", order: newOrder(100, 50, 100), expErr: true},
		{title: "fee exceeds maker amount", order: newOrder(100, 50, 101), expErr: true},
	}
	for _, tc := range tcs {
		t.Run(tc.title, func(t *testing.T) {
			got, err := rates.RateOfFeeOrder(tc.order)
			if tc.expErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ArithmeticErr))
				assert.ErrorIs(t, err, errors.ErrFeeOrderCannotNetFee)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.exp, got.String())
		})
	}
}

func TestRateFuncs(t *testing.T) {
	o := newOrder(100, 50, 10)
	direct, err := rates.RateOfOrder(o, decimal.MustParse("2"))
	require.NoError(t, err)
	applied, err := rates.OrderRate(decimal.MustParse("2"))(o)
	require.NoError(t, err)
	assert.Equal(t, 0, direct.Cmp(applied))

	fee, err := rates.FeeOrderRate(o)
	require.NoError(t, err)
	assert.Equal(t, "5/9", fee.String())
}
