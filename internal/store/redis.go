package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each path list as a Redis list.
//
// Redis has no empty lists, so saving an empty slice deletes the key and a
// later GetPaths reports ErrKeyNotFound. Callers treat both the same way.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

var _ IndexStore = (*RedisStore)(nil)

// NewRedisStore returns a RedisStore that prepends prefix to keys.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// SavePaths replaces the list atomically with DEL + RPUSH in one
// MULTI/EXEC transaction.
func (s *RedisStore) SavePaths(ctx context.Context, key string, paths []string) error {
	fullKey := s.prefix + key

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, fullKey)
		if len(paths) > 0 {
			values := make([]any, len(paths))
			for i, p := range paths {
				values[i] = p
			}
			pipe.RPush(ctx, fullKey, values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save paths under %s: %w", fullKey, err)
	}
	return nil
}

// GetPaths reads the whole list under key. A missing key is ErrKeyNotFound.
func (s *RedisStore) GetPaths(ctx context.Context, key string) ([]string, error) {
	fullKey := s.prefix + key

	var (
		exists *redis.IntCmd
		items  *redis.StringSliceCmd
	)
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		exists = pipe.Exists(ctx, fullKey)
		items = pipe.LRange(ctx, fullKey, 0, -1)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get paths under %s: %w", fullKey, err)
	}

	if exists.Val() == 0 {
		return nil, ErrKeyNotFound
	}
	return items.Val(), nil
}
