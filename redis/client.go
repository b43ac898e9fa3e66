package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Client is the subset of the go-redis clients the stores use. Regular, cluster and failover clients all
// satisfy it.
type Client interface {
	redis.Cmdable
	Close() error
	Watch(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error
}

// Cmdable is what the *Cmd helpers queue commands on: a client, a pipeline or a transaction.
type Cmdable interface {
	redis.Cmdable
}
