package redis_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dora-network/order-utils/errors"
	"github.com/dora-network/order-utils/order"
	"github.com/dora-network/order-utils/order/redis"
	"github.com/dora-network/order-utils/signing"
	"github.com/dora-network/order-utils/testing/integration"
)

func signedOrder(salt int64) order.SignedOrder {
	o := order.Empty(1)
	o.MakerAssetAmount = big.NewInt(100)
	o.TakerAssetAmount = big.NewInt(50)
	o.Salt = big.NewInt(salt)
	o.MakerAssetData = []byte{0x01}
	o.TakerAssetData = []byte{0x02}
	return order.SignedOrder{Order: o, Signature: []byte{0x1b, 0x02}}
}

func TestOrderHashes(t *testing.T) {
	orders := []order.SignedOrder{signedOrder(1), signedOrder(2)}
	hashes, err := redis.OrderHashes(orders)
	require.NoError(t, err)
	require.Len(t, hashes, 2)

	h, err := signing.OrderHash(orders[1].Order)
	require.NoError(t, err)
	assert.Equal(t, h.Hex(), hashes[1])
	assert.NotEqual(t, hashes[0], hashes[1])
	assert.Equal(t, "order:"+hashes[0], redis.OrderKey(hashes[0]))

	bad := signedOrder(3)
	bad.MakerAssetData = nil
	_, err = redis.OrderHashes([]order.SignedOrder{bad})
	assert.True(t, errors.Is(err, errors.SchemaErr))
}

func TestSignedOrders(t *testing.T) {
	rdb := integration.Redis(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orders := []order.SignedOrder{signedOrder(1), signedOrder(2)}
	var hashes []string

	t.Run(
		"Should store orders by hash", func(tt *testing.T) {
			var err error
			hashes, err = redis.SetSignedOrders(ctx, rdb, time.Second, orders)
			require.NoError(tt, err)
			require.Len(tt, hashes, 2)
		},
	)

	t.Run(
		"Should retrieve orders with nil for unknown hashes", func(tt *testing.T) {
			got, err := redis.GetSignedOrders(ctx, rdb, time.Second, hashes[1], "0x00", hashes[0])
			require.NoError(tt, err)
			require.Len(tt, got, 3)
			require.NotNil(tt, got[0])
			assert.Equal(tt, "2", got[0].Salt.String())
			assert.Equal(tt, orders[1].Signature, got[0].Signature)
			assert.Nil(tt, got[1])
			require.NotNil(tt, got[2])
			assert.Equal(tt, "1", got[2].Salt.String())
		},
	)

	t.Run(
		"Should delete orders", func(tt *testing.T) {
			require.NoError(tt, redis.DeleteSignedOrders(ctx, rdb, hashes[0]))
			got, err := redis.GetSignedOrders(ctx, rdb, time.Second, hashes[0])
			require.NoError(tt, err)
			assert.Nil(tt, got[0])
		},
	)

	t.Run(
		"Should reject misaligned hashes", func(tt *testing.T) {
			_, err := redis.SetSignedOrdersCmd(ctx, rdb, hashes[:1], orders)
			assert.True(tt, errors.Is(err, errors.LengthMismatchErr))
		},
	)
}
