package redis

import (
	"context"
	"errors"
	"time"

	"github.com/govalues/decimal"
	redisv9 "github.com/redis/go-redis/v9"

	errs "github.com/dora-network/order-utils/errors"
	"github.com/dora-network/order-utils/prices/types"
	"github.com/dora-network/order-utils/redis"
)

func PricesKey() string {
	return redis.FeeRatesKey()
}

// GetPrices returns the price of each asset pair in pairIDs, in order. A missing price is returned as the zero Price.
func GetPrices(
	ctx context.Context,
	rdb redis.Client,
	timeout time.Duration,
	pairIDs ...string,
) ([]types.Price, error) {
	return getPrices(ctx, rdb, timeout, PricesKey(), pairIDs...)
}

func getPrices(ctx context.Context, rdb redis.Client, timeout time.Duration, key string, ids ...string) (
	[]types.Price,
	error,
) {
	var prices []types.Price

	f := func(tx *redisv9.Tx) error {
		prices = prices[:0]
		res, err := tx.HMGet(ctx, key, ids...).Result()
		if err != nil {
			if errors.Is(err, redisv9.Nil) {
				return nil
			}
			return err
		}

		for _, v := range res {
			if v == nil {
				prices = append(prices, types.Price{})
				continue
			}

			s, ok := v.(string)
			if !ok {
				return errs.Newf(errs.InternalError, "unexpected price value %T", v)
			}
			b := new(types.Price)
			if err := b.UnmarshalBinary([]byte(s)); err != nil {
				return err
			}
			prices = append(prices, *b)
		}

		return nil
	}

	if err := redis.TryTransaction(ctx, rdb, f, redis.Backoff(timeout), key); err != nil {
		return nil, err
	}

	return prices, nil
}

// GetFeeRate returns the price of one feeAssetID unit in quoteAssetID units, the feeRate used to rank orders.
// Errors with errors.ErrPriceNotFound if no price is stored for the pair.
func GetFeeRate(
	ctx context.Context,
	rdb redis.Client,
	timeout time.Duration,
	feeAssetID, quoteAssetID string,
) (decimal.Decimal, error) {
	prices, err := GetPrices(ctx, rdb, timeout, types.PairID(feeAssetID, quoteAssetID))
	if err != nil {
		return decimal.Zero, err
	}
	if len(prices) == 0 || prices[0].AssetID == "" {
		return decimal.Zero, errs.Wrap(errs.NotFoundError, errs.ErrPriceNotFound, types.PairID(feeAssetID, quoteAssetID))
	}
	return prices[0].Price, nil
}

func GetPricesCmd(ctx context.Context, tx redis.Cmdable, pairIDs ...string) *redisv9.SliceCmd {
	return tx.HMGet(ctx, PricesKey(), pairIDs...)
}

// SetFeeRates stores the given prices, replacing any stored price for the same pair. Negative prices are rejected.
func SetFeeRates(
	ctx context.Context,
	rdb redis.Client,
	timeout time.Duration,
	prices []types.Price,
) error {
	values, err := priceValues(prices)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}
	txFunc := func(tx *redisv9.Tx) error {
		_, err := tx.TxPipelined(ctx, func(pipe redisv9.Pipeliner) error {
			return pipe.HSet(ctx, PricesKey(), values).Err()
		})
		return err
	}

	return redis.TryTransaction(ctx, rdb, txFunc, redis.Backoff(timeout), PricesKey())
}

func SetPricesCmd(ctx context.Context, tx redis.Cmdable, prices []types.Price) ([]redisv9.Cmder, error) {
	values, err := priceValues(prices)
	if err != nil {
		return nil, err
	}
	return []redisv9.Cmder{tx.HSet(ctx, PricesKey(), values)}, nil
}

func priceValues(prices []types.Price) (map[string]any, error) {
	values := make(map[string]any, len(prices))
	for i := range prices {
		p := prices[i]
		if p.AssetID == "" || p.QuoteAssetID == "" {
			return nil, errs.Validation("price %d has no asset pair", i)
		}
		if p.Price.IsNeg() {
			return nil, errs.Validation("price of %s must not be negative", p.PairID())
		}
		values[p.PairID()] = &p
	}
	return values, nil
}
