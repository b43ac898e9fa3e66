package redis

import (
	"context"
	"errors"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	errs "github.com/dora-network/order-utils/errors"
	"github.com/dora-network/order-utils/order"
	"github.com/dora-network/order-utils/redis"
	"github.com/dora-network/order-utils/signing"
)

func OrderKey(orderHash string) string {
	return redis.OrderKey(orderHash)
}

func GetOrderKeys(orderHashes ...string) []string {
	return redis.WatchKeys(OrderKey, orderHashes...)
}

// OrderHashes returns the hex order hash of each signed order.
func OrderHashes(orders []order.SignedOrder) ([]string, error) {
	hashes := make([]string, len(orders))
	for i, o := range orders {
		h, err := signing.OrderHash(o.Order)
		if err != nil {
			return nil, err
		}
		hashes[i] = h.Hex()
	}
	return hashes, nil
}

// SetSignedOrders stores each order under its order hash and returns the hashes, aligned with orders.
func SetSignedOrders(
	ctx context.Context,
	rdb redis.Client,
	timeout time.Duration,
	orders []order.SignedOrder,
) ([]string, error) {
	hashes, err := OrderHashes(orders)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return hashes, nil
	}
	txFunc := func(tx *redisv9.Tx) error {
		_, err := tx.TxPipelined(ctx, func(pipe redisv9.Pipeliner) error {
			_, err := SetSignedOrdersCmd(ctx, pipe, hashes, orders)
			return err
		})
		return err
	}
	if err := redis.TryTransaction(ctx, rdb, txFunc, redis.Backoff(timeout), GetOrderKeys(hashes...)...); err != nil {
		return nil, err
	}
	return hashes, nil
}

func SetSignedOrdersCmd(
	ctx context.Context,
	tx redis.Cmdable,
	hashes []string,
	orders []order.SignedOrder,
) ([]redisv9.Cmder, error) {
	if len(hashes) != len(orders) {
		return nil, errs.LengthMismatch("hashes has %d entries, expected %d", len(hashes), len(orders))
	}
	cmds := make([]redisv9.Cmder, 0, len(orders))
	for i := range orders {
		cmds = append(cmds, tx.Set(ctx, OrderKey(hashes[i]), &orders[i], 0))
	}
	return cmds, nil
}

// GetSignedOrders returns the stored order of each hash, in order. Unknown hashes get a nil entry.
func GetSignedOrders(
	ctx context.Context,
	rdb redis.Client,
	timeout time.Duration,
	orderHashes ...string,
) ([]*order.SignedOrder, error) {
	if len(orderHashes) == 0 {
		return []*order.SignedOrder{}, nil
	}
	keys := GetOrderKeys(orderHashes...)
	var orders []*order.SignedOrder

	f := func(tx *redisv9.Tx) error {
		orders = make([]*order.SignedOrder, len(orderHashes))
		for i, key := range keys {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				if errors.Is(err, redisv9.Nil) {
					continue
				}
				return err
			}
			o := new(order.SignedOrder)
			if err := o.UnmarshalBinary(data); err != nil {
				return errs.Wrap(errs.InternalError, err, orderHashes[i])
			}
			orders[i] = o
		}
		return nil
	}

	if err := redis.TryTransaction(ctx, rdb, f, redis.Backoff(timeout), keys...); err != nil {
		return nil, err
	}
	return orders, nil
}

func DeleteSignedOrders(ctx context.Context, rdb redis.Client, orderHashes ...string) error {
	if len(orderHashes) == 0 {
		return nil
	}
	return rdb.Del(ctx, GetOrderKeys(orderHashes...)...).Err()
}
