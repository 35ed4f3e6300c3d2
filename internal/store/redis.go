package store

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "mentorship"

// RedisStore keeps each collection under its own key.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore builds a store that namespaces its keys with prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: strings.TrimSuffix(prefix, ":")}
}

// Key returns the redis key of a collection.
func (s *RedisStore) Key(c Collection) string {
	return s.prefix + ":collections:" + c.String()
}

func (s *RedisStore) Read(ctx context.Context, c Collection) ([]byte, error) {
	if err := checkCollection(c); err != nil {
		return nil, err
	}
	payload, err := s.client.Get(ctx, s.Key(c)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *RedisStore) Write(ctx context.Context, c Collection, payload []byte) error {
	if err := checkCollection(c); err != nil {
		return err
	}
	return s.client.Set(ctx, s.Key(c), payload, 0).Err()
}
