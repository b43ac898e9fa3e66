package redis

import (
	"context"
	"errors"
	"math/big"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	errs "github.com/dora-network/order-utils/errors"
	"github.com/dora-network/order-utils/market"
	"github.com/dora-network/order-utils/math"
	"github.com/dora-network/order-utils/order"
	"github.com/dora-network/order-utils/redis"
	"github.com/dora-network/order-utils/validation"
)

func RemainingFillableKey() string {
	return redis.RemainingFillableKey()
}

// GetRemainingFillableAmounts returns the stored remaining fillable amount of each order hash, in order.
// Hashes with nothing stored get a nil entry.
func GetRemainingFillableAmounts(
	ctx context.Context,
	rdb redis.Client,
	timeout time.Duration,
	orderHashes ...string,
) ([]*big.Int, error) {
	if len(orderHashes) == 0 {
		return []*big.Int{}, nil
	}
	key := RemainingFillableKey()
	var amounts []*big.Int

	f := func(tx *redisv9.Tx) error {
		amounts = make([]*big.Int, len(orderHashes))
		res, err := tx.HMGet(ctx, key, orderHashes...).Result()
		if err != nil {
			if errors.Is(err, redisv9.Nil) {
				return nil
			}
			return err
		}
		for i, v := range res {
			if v == nil {
				continue
			}
			s, ok := v.(string)
			if !ok {
				return errs.Newf(errs.InternalError, "unexpected amount value %T for %s", v, orderHashes[i])
			}
			amount, err := math.ValidNotNegativeBigInt(s)
			if err != nil {
				return errs.Wrap(errs.InternalError, err, orderHashes[i])
			}
			amounts[i] = amount
		}
		return nil
	}

	if err := redis.TryTransaction(ctx, rdb, f, redis.Backoff(timeout), key); err != nil {
		return nil, err
	}
	return amounts, nil
}

// SetRemainingFillableAmounts stores the remaining fillable amount of each order hash.
// A zero amount is stored as is, so a fully filled order is distinguishable from an unknown one.
func SetRemainingFillableAmounts(
	ctx context.Context,
	rdb redis.Client,
	timeout time.Duration,
	amounts map[string]*big.Int,
) error {
	values, err := amountValues(amounts)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}
	key := RemainingFillableKey()
	txFunc := func(tx *redisv9.Tx) error {
		_, err := tx.TxPipelined(ctx, func(pipe redisv9.Pipeliner) error {
			return pipe.HSet(ctx, key, values).Err()
		})
		return err
	}
	return redis.TryTransaction(ctx, rdb, txFunc, redis.Backoff(timeout), key)
}

func SetRemainingFillableAmountsCmd(ctx context.Context, tx redis.Cmdable, amounts map[string]*big.Int) ([]redisv9.Cmder, error) {
	values, err := amountValues(amounts)
	if err != nil {
		return nil, err
	}
	return []redisv9.Cmder{tx.HSet(ctx, RemainingFillableKey(), values)}, nil
}

// DeleteRemainingFillableAmounts forgets the stored amounts of the given order hashes.
func DeleteRemainingFillableAmounts(ctx context.Context, rdb redis.Client, orderHashes ...string) error {
	if len(orderHashes) == 0 {
		return nil
	}
	return rdb.HDel(ctx, RemainingFillableKey(), orderHashes...).Err()
}

// Snapshot builds a liquidity snapshot aligned with orders, using the nominal amount of op for every nil entry.
func Snapshot(amounts []*big.Int, orders []order.Order, op market.Operation) ([]*big.Int, error) {
	if len(amounts) != len(orders) {
		return nil, errs.LengthMismatch("amounts has %d entries, expected %d", len(amounts), len(orders))
	}
	defaults := market.DefaultRemainingFillableAmounts(orders, op)
	out := make([]*big.Int, len(orders))
	for i, a := range amounts {
		if a == nil {
			out[i] = defaults[i]
			continue
		}
		out[i] = math.Copy(a)
	}
	return out, nil
}

func amountValues(amounts map[string]*big.Int) (map[string]any, error) {
	values := make(map[string]any, len(amounts))
	for hash, amount := range amounts {
		if err := validation.ValidateBaseUnitAmount(amount); err != nil {
			return nil, errs.Wrap(errs.ValidationErr, err, hash)
		}
		values[hash] = amount.String()
	}
	return values, nil
}
