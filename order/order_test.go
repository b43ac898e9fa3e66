package order_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dora-network/order-utils/errors"
	"github.com/dora-network/order-utils/math"
	"github.com/dora-network/order-utils/order"
)

var (
	maker    = common.HexToAddress("0x5409ed021d9299bf6814279a6a1411a7e866a631")
	taker    = common.HexToAddress("0x6ecbe1db9ef729cbe972c83fb886247691fb6beb")
	exchange = common.HexToAddress("0x48bacb9266a570d521063ef5dd96e61686dbe788")
	wethData = common.FromHex("0xf47261b0000000000000000000000000c02aaa39b223fe8d0a0e5c4f27ead9083c756cc2")
	zrxData  = common.FromHex("0xf47261b0000000000000000000000000e41d2489571d322189246dafa5ebde1f4699f498")
)

func TestNew_Defaults(t *testing.T) {
	o, err := order.New(maker, big.NewInt(100), wethData, big.NewInt(200), zrxData, exchange, 1337, order.CreateOptions{})
	require.NoError(t, err)

	assert.Equal(t, order.NullAddress, o.TakerAddress)
	assert.Equal(t, order.NullAddress, o.SenderAddress)
	assert.Equal(t, order.NullAddress, o.FeeRecipientAddress)
	assert.Equal(t, "0", o.MakerFee.String())
	assert.Equal(t, "0", o.TakerFee.String())
	assert.Equal(t, math.MaxUint256.String(), o.ExpirationTimeSeconds.String())
	assert.Equal(t, wethData, o.MakerFeeAssetData)
	assert.Equal(t, zrxData, o.TakerFeeAssetData)
	assert.Equal(t, int64(1337), o.ChainID)
	require.NotNil(t, o.Salt)
	assert.True(t, o.IsOpen())
	assert.False(t, o.IsExpired(time.Now()))
}

func TestNew_Options(t *testing.T) {
	amount := big.NewInt(100)
	o, err := order.New(
		maker, amount, wethData, big.NewInt(200), zrxData, exchange, 1,
		order.CreateOptions{
			TakerAddress:      taker,
			MakerFee:          big.NewInt(3),
			TakerFee:          big.NewInt(5),
			TakerFeeAssetData: wethData,
			Salt:              big.NewInt(42),
			ExpirationTimeSec: big.NewInt(1000),
		},
	)
	require.NoError(t, err)
	assert.False(t, o.IsOpen())
	assert.Equal(t, "3", o.MakerFee.String())
	assert.Equal(t, "5", o.TakerFee.String())
	assert.Equal(t, wethData, o.TakerFeeAssetData)
	assert.Equal(t, "42", o.Salt.String())
	assert.True(t, o.IsExpired(time.Unix(1001, 0)))
	assert.False(t, o.IsExpired(time.Unix(1000, 0)))
	assert.True(t, o.WillExpire(time.Unix(900, 0), 101))

	// caller-owned amounts are copied
	amount.SetInt64(1)
	assert.Equal(t, "100", o.MakerAssetAmount.String())
}

func TestGeneratePseudoRandomSalt(t *testing.T) {
	limit := new(big.Int).Lsh(big.NewInt(1), 256)
	a, err := order.GeneratePseudoRandomSalt()
	require.NoError(t, err)
	b, err := order.GeneratePseudoRandomSalt()
	require.NoError(t, err)
	assert.True(t, a.Cmp(limit) < 0)
	assert.False(t, math.IsNegative(a))
	assert.NotEqual(t, a.String(), b.String())
}

func TestEmpty(t *testing.T) {
	o := order.Empty(3)
	assert.Equal(t, int64(3), o.ChainID)
	assert.Equal(t, "0", o.MakerAssetAmount.String())
	assert.Equal(t, "0", o.Salt.String())
	assert.Equal(t, math.MaxUint256.String(), o.ExpirationTimeSeconds.String())
	assert.True(t, o.IsOpen())
}

func TestClone(t *testing.T) {
	o, err := order.New(maker, big.NewInt(100), wethData, big.NewInt(200), zrxData, exchange, 1, order.CreateOptions{})
	require.NoError(t, err)

	c := o.Clone()
	c.MakerAssetAmount.SetInt64(1)
	c.MakerAssetData[0] = 0xff
	c.Salt.SetInt64(0)

	assert.Equal(t, "100", o.MakerAssetAmount.String())
	assert.Equal(t, wethData[0], o.MakerAssetData[0])
	assert.NotEqual(t, "0", o.Salt.String())

	signed := order.SignedOrder{Order: o, Signature: []byte{1, 2, 3}}
	sc := signed.Clone()
	sc.Signature[0] = 9
	assert.Equal(t, byte(1), signed.Signature[0])
}

func TestOrders(t *testing.T) {
	signed := []order.SignedOrder{
		{Order: order.Empty(1), Signature: []byte{1}},
		{Order: order.Empty(2), Signature: []byte{2}},
	}
	orders := order.Orders(signed)
	require.Len(t, orders, 2)
	assert.Equal(t, int64(2), orders[1].ChainID)
	assert.Nil(t, order.CloneAll(nil))
}

func TestJSON(t *testing.T) {
	o, err := order.New(
		maker, math.MaxUint256, wethData, big.NewInt(200), zrxData, exchange, 1,
		order.CreateOptions{TakerFee: big.NewInt(7), Salt: big.NewInt(99)},
	)
	require.NoError(t, err)
	signed := order.SignedOrder{Order: o, Signature: []byte{0xaa, 0xbb}}

	data, err := json.Marshal(signed)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"makerAssetAmount":"`+math.MaxUint256.String()+`"`)
	assert.Contains(t, string(data), `"signature":"0xaabb"`)
	assert.Contains(t, string(data), `"takerFee":"7"`)

	var decoded order.SignedOrder
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, signed.Signature, decoded.Signature)
	assert.Equal(t, o.MakerAssetAmount.String(), decoded.MakerAssetAmount.String())
	assert.Equal(t, o.TakerFee.String(), decoded.TakerFee.String())
	assert.Equal(t, o.Salt.String(), decoded.Salt.String())
	assert.Equal(t, o.MakerAddress, decoded.MakerAddress)
	assert.Equal(t, o.MakerAssetData, []byte(decoded.MakerAssetData))

	bin, err := o.MarshalBinary()
	require.NoError(t, err)
	var fromBin order.Order
	require.NoError(t, fromBin.UnmarshalBinary(bin))
	assert.Equal(t, o.TakerAssetAmount.String(), fromBin.TakerAssetAmount.String())
}

func TestUnmarshalJSON_Invalid(t *testing.T) {
	tcs := []struct {
		title string
		data  string
	}{
		{"missing maker amount", `{"takerAssetAmount":"1"}`},
		{"decimal amount", `{"makerAssetAmount":"1.5","takerAssetAmount":"1"}`},
		{"garbage amount", `{"makerAssetAmount":"abc","takerAssetAmount":"1"}`},
	}
	for _, tc := range tcs {
		t.Run(tc.title, func(t *testing.T) {
			var o order.Order
			err := json.Unmarshal([]byte(tc.data), &o)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.SchemaErr))
		})
	}
}

func TestUnmarshalJSON_Defaults(t *testing.T) {
	var o order.Order
	require.NoError(t, json.Unmarshal([]byte(`{"makerAssetAmount":"10","takerAssetAmount":"20"}`), &o))
	assert.Equal(t, "0", o.TakerFee.String())
	assert.Equal(t, math.MaxUint256.String(), o.ExpirationTimeSeconds.String())
}
