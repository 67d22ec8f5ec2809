package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter implements Limiter on Redis. Counting, expiry, and blocking
// happen in one Lua script so concurrent attempts never race.
type RedisLimiter struct {
	rdb    *redis.Client
	script *redis.Script
}

// The script returns {allowed, remaining, retry_after_seconds}.
const checkScript = `
local attempts_key = KEYS[1]
local block_key = KEYS[2]
local max_attempts = tonumber(ARGV[1])
local window_seconds = tonumber(ARGV[2])
local block_seconds = tonumber(ARGV[3])

local block_ttl = redis.call('TTL', block_key)
if block_ttl > 0 then
    return { 0, 0, block_ttl }
end

local count = redis.call('INCR', attempts_key)
if count == 1 then
    redis.call('EXPIRE', attempts_key, window_seconds)
end

if count > max_attempts then
    redis.call('SET', block_key, '1', 'EX', block_seconds)
    redis.call('DEL', attempts_key)
    return { 0, 0, block_seconds }
end

return { 1, max_attempts - count, redis.call('TTL', attempts_key) }
`

// NewRedisLimiter returns a limiter that stores state in the given Redis client.
func NewRedisLimiter(rdb *redis.Client) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, script: redis.NewScript(checkScript)}
}

// Check records one attempt for key and reports whether it is allowed.
func (l *RedisLimiter) Check(ctx context.Context, key string, p Policy) (Decision, error) {
	keys := []string{attemptsKey(key), blockKey(key)}
	args := []interface{}{
		p.MaxAttempts,
		int64(p.Window / time.Second),
		int64(p.BlockDuration / time.Second),
	}
	vals, err := l.script.Run(ctx, l.rdb, keys, args...).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit check: %w", err)
	}
	arr, ok := vals.([]interface{})
	if !ok || len(arr) != 3 {
		return Decision{}, fmt.Errorf("ratelimit check: unexpected script result %#v", vals)
	}
	return Decision{
		Allowed:    asInt64(arr[0]) == 1,
		Remaining:  int(asInt64(arr[1])),
		RetryAfter: time.Duration(asInt64(arr[2])) * time.Second,
	}, nil
}

// Reset clears the key's attempt counter and any active block.
func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	if err := l.rdb.Del(ctx, attemptsKey(key), blockKey(key)).Err(); err != nil {
		return fmt.Errorf("ratelimit reset: %w", err)
	}
	return nil
}

func attemptsKey(key string) string { return "ratelimit:attempts:" + key }
func blockKey(key string) string    { return "ratelimit:block:" + key }

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	}
	return 0
}
