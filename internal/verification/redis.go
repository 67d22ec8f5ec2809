package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on Redis. Expiry is delegated to Redis TTLs;
// Consume uses GETDEL so a token can never be redeemed twice.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore returns a store whose tokens expire after ttl.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Issue(ctx context.Context, userID string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("issue verification token: %w", err)
	}
	if err := s.rdb.Set(ctx, redisKey(token), userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("issue verification token: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Consume(ctx context.Context, token string) (string, error) {
	userID, err := s.rdb.GetDel(ctx, redisKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("consume verification token: %w", err)
	}
	return userID, nil
}

func redisKey(token string) string { return "verify:email:" + token }
