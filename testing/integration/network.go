package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	redisv9 "github.com/redis/go-redis/v9"

	"github.com/dora-network/order-utils/redis"
)

// Network is a docker network holding the backing services of an integration test.
type Network struct {
	Pool          *dockertest.Pool
	Network       *docker.Network
	RedisResource *dockertest.Resource
}

func NewNetwork(t *testing.T) (*Network, error) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, err
	}

	if err := pool.Client.Ping(); err != nil {
		return nil, err
	}
	pool.MaxWait = 30 * time.Second

	network, err := pool.Client.CreateNetwork(docker.CreateNetworkOptions{
		Name: "order-utils-testing-" + uuid.NewString()[:8],
	})
	if err != nil {
		return nil, err
	}

	return &Network{
		Pool:    pool,
		Network: network,
	}, nil
}

func (n *Network) CreateRedisResource(t *testing.T, ctx context.Context) error {
	t.Helper()
	resource, err := n.Pool.RunWithOptions(
		&dockertest.RunOptions{
			Repository:   "redis",
			Tag:          "7-alpine",
			NetworkID:    n.Network.ID,
			ExposedPorts: []string{"6379/tcp"},
		}, func(config *docker.HostConfig) {
			config.AutoRemove = true
			config.RestartPolicy = docker.RestartPolicy{Name: "no"}
		},
	)
	if err != nil {
		return err
	}

	hostAndPort := resource.GetHostPort("6379/tcp")
	t.Log("Redis host and port: ", hostAndPort)

	if err = n.Pool.Retry(func() error {
		db := redisv9.NewClient(&redisv9.Options{
			Addr: hostAndPort,
		})
		defer db.Close()

		return db.Ping(ctx).Err()
	}); err != nil {
		return fmt.Errorf("could not start redis: %w", err)
	}

	n.RedisResource = resource
	return nil
}

func (n *Network) Cleanup() error {
	if n.RedisResource != nil {
		if err := n.Pool.Purge(n.RedisResource); err != nil {
			return err
		}
	}

	return n.Pool.Client.RemoveNetwork(n.Network.ID)
}

func (n *Network) GetRedisClient() (redis.Client, error) {
	return redis.NewClient(redis.Config{
		Address: []string{n.RedisResource.GetHostPort("6379/tcp")},
	})
}

// Redis starts a redis container for the test and returns a client for it. The container and network are removed
// when the test finishes. The test is skipped if no docker daemon is reachable.
func Redis(t *testing.T) redis.Client {
	t.Helper()

	n, err := NewNetwork(t)
	if err != nil {
		t.Skipf("docker is not available: %v", err)
	}
	t.Cleanup(func() {
		if err := n.Cleanup(); err != nil {
			t.Logf("cleanup: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := n.CreateRedisResource(t, ctx); err != nil {
		t.Fatalf("create redis: %v", err)
	}

	rdb, err := n.GetRedisClient()
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}
