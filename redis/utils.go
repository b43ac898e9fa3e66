package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

const (
	LiquidityPrefix = "liquidity"
	PricesPrefix    = "prices"
	OrderPrefix     = "order"
)

// RemainingFillableKey returns the key of the hash holding each order's remaining fillable amount,
// indexed by order hash.
func RemainingFillableKey() string {
	return Key(LiquidityPrefix, "remaining_fillable")
}

// FeeRatesKey returns the key of the hash holding fee token prices, indexed by asset pair.
func FeeRatesKey() string {
	return Key(PricesPrefix, "fee_rates")
}

// OrderKey returns the key for retrieving a signed order by its hash.
func OrderKey(orderHash string) string {
	return Key(OrderPrefix, orderHash)
}

// Key constructs a redis key from the given elements. The elements should be provided in the
// order they should appear in the key. A key's format should follow the following pattern:
// - data type
// - record ID
// - additional distinguishing information
// for example: "liquidity:remaining_fillable"
func Key(elems ...string) string {
	return strings.Join(elems, ":")
}

// TryTransaction retries the given transaction function until it succeeds or the backoff strategy gives up.
// Failed optimistic locks are retried, any other error is returned immediately.
func TryTransaction(ctx context.Context, rdb Client, f func(tx *redis.Tx) error, backoffStrategy backoff.BackOff, keys ...string) error {
	retryFn := func() error {
		err := rdb.Watch(ctx, f, keys...)
		if err == nil || errors.Is(err, redis.TxFailedErr) {
			return err
		}
		return backoff.Permanent(err)
	}

	return backoff.Retry(retryFn, backoff.WithContext(backoffStrategy, ctx))
}

// Backoff returns the exponential backoff the stores retry transactions with.
func Backoff(timeout time.Duration) backoff.BackOff {
	return backoff.NewExponentialBackOff(backoff.WithMaxElapsedTime(timeout))
}

func NewClient(config Config) (Client, error) {
	if len(config.Address) == 0 {
		return nil, errors.New("redis address must be provided")
	}

	switch config.ClientType {
	case ClientTypeCluster:
		return redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:            config.Address,
			Protocol:         config.Protocol,
			Username:         config.Username,
			Password:         config.Password,
			DisableIndentity: config.DisableIdentity,
		}), nil
	case ClientTypeFailover:
		if config.MasterName == "" {
			return nil, errors.New("redis master name must be provided for a failover client")
		}
		return redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:    config.MasterName,
			SentinelAddrs: config.Address,
			Protocol:      config.Protocol,
			Username:      config.Username,
			Password:      config.Password,
			DB:            config.DB,
		}), nil
	}

	return redis.NewClient(&redis.Options{
		Addr:             config.Address[0],
		Protocol:         config.Protocol,
		Username:         config.Username,
		Password:         config.Password,
		DB:               config.DB,
		DisableIndentity: config.DisableIdentity,
	}), nil
}

type KeyFunc func(string) string

func WatchKeys(f KeyFunc, keys ...string) []string {
	watchedKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		watchedKeys = append(watchedKeys, f(key))
	}
	return watchedKeys
}
