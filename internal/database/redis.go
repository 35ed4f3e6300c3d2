package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPingTimeout = 5 * time.Second

// RedisOptions tunes the client built by ConnectRedis. Zero values keep the URL's settings.
type RedisOptions struct {
	// ClientName is reported through CLIENT SETNAME so the engine's connections are
	// recognisable in CLIENT LIST.
	ClientName  string
	PoolSize    int
	PingTimeout time.Duration
}

// ConnectRedis builds a client for the store and event cache and fails unless the server
// answers a ping within opts.PingTimeout.
func ConnectRedis(ctx context.Context, url string, opts RedisOptions) (*redis.Client, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("redis url must not be empty")
	}

	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if name := redisClientName(opts.ClientName); name != "" {
		options.ClientName = name
	}
	if opts.PoolSize > 0 {
		options.PoolSize = opts.PoolSize
	}

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = defaultRedisPingTimeout
	}

	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis at %s did not answer within %s: %w", options.Addr, timeout, err)
	}

	return client, nil
}

// redisClientName lowercases name and joins its words with dashes; CLIENT SETNAME rejects spaces.
func redisClientName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}
