package validation_test

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dora-network/order-utils/errors"
	"github.com/dora-network/order-utils/order"
	"github.com/dora-network/order-utils/validation"
)

func TestValidateBaseUnitAmount(t *testing.T) {
	var nilInt *big.Int
	tcs := []struct {
		title string
		value interface{}
		err   error
		typ   errors.ErrorType
	}{
		{title: "zero", value: big.NewInt(0)},
		{title: "positive", value: big.NewInt(12)},
		{title: "negative", value: big.NewInt(-1), typ: errors.ValidationErr},
		{title: "nil", value: nilInt, err: errors.ErrAmountMustNotBeNil, typ: errors.ValidationErr},
		{title: "wrong type", value: "12", err: errors.ErrInvalidInput, typ: errors.InvalidInputError},
	}
	for _, tc := range tcs {
		t.Run(tc.title, func(t *testing.T) {
			err := validation.ValidateBaseUnitAmount(tc.value)
			if tc.typ == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.typ))
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
			}
		})
	}
}

func TestValidateFeeRate(t *testing.T) {
	require.NoError(t, validation.ValidateFeeRate(decimal.Zero))
	require.NoError(t, validation.ValidateFeeRate(decimal.MustParse("0.25")))
	assert.ErrorIs(t, validation.ValidateFeeRate(decimal.MustParse("-0.01")), errors.ErrFeeRateMustNotBeNegative)
	assert.ErrorIs(t, validation.ValidateFeeRate(1.5), errors.ErrInvalidInput)
}

func TestValidateSnapshot(t *testing.T) {
	err := validation.ValidateSnapshot("remainingFillableAmounts", 2, []*big.Int{big.NewInt(1)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.LengthMismatchErr))

	err = validation.ValidateSnapshot("remainingFillableAmounts", 2, []*big.Int{big.NewInt(1), big.NewInt(-1)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ValidationErr))
	assert.Contains(t, err.Error(), "remainingFillableAmounts[1]")

	require.NoError(t, validation.ValidateSnapshot("remainingFillableAmounts", 0, nil))
}

func validOrder() order.Order {
	o := order.Empty(1)
	o.MakerAssetAmount = big.NewInt(10)
	o.TakerAssetAmount = big.NewInt(20)
	o.MakerAssetData = []byte{0x01}
	o.TakerAssetData = []byte{0x02}
	return o
}

func TestSchemaValidator(t *testing.T) {
	tcs := []struct {
		title  string
		mutate func(o *order.Order)
		expErr bool
	}{
		{title: "valid", mutate: func(o *order.Order) {}},
		{title: "nil maker amount", mutate: func(o *order.Order) { o.MakerAssetAmount = nil }, expErr: true},
		{title: "negative taker fee", mutate: func(o *order.Order) { o.TakerFee = big.NewInt(-1) }, expErr: true},
		{title: "nil salt", mutate: func(o *order.Order) { o.Salt = nil }, expErr: true},
		{title: "empty maker asset data", mutate: func(o *order.Order) { o.MakerAssetData = nil }, expErr: true},
		{title: "empty taker asset data", mutate: func(o *order.Order) { o.TakerAssetData = []byte{} }, expErr: true},
		{title: "zero chain id", mutate: func(o *order.Order) { o.ChainID = 0 }, expErr: true},
	}
	for _, tc := range tcs {
		t.Run(tc.title, func(t *testing.T) {
			o := validOrder()
			tc.mutate(&o)
			err := validation.SchemaValidator{}.Validate(o)
			if !tc.expErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.SchemaErr))
		})
	}
}

func TestValidateOrders(t *testing.T) {
	bad := validOrder()
	bad.TakerAssetAmount = nil
	err := validation.ValidateOrders(validation.SchemaValidator{}, "orders", []order.Order{validOrder(), bad})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.SchemaErr))
	assert.Contains(t, err.Error(), "orders[1]")
}

func TestDefault(t *testing.T) {
	assert.Equal(t, fmt.Sprintf("%T", validation.SchemaValidator{}), fmt.Sprintf("%T", validation.Default()))
	assert.NoError(t, validation.Default().Validate(validOrder()))

	bad := validOrder()
	bad.ChainID = 0
	assert.True(t, errors.Is(validation.Default().Validate(bad), errors.SchemaErr))
}
