package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// takeScript refills the bucket for the time elapsed since the last refill
// and consumes one token if any are left. It returns {allowed, remaining}.
var takeScript = redis.NewScript(`
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local refill_rate = tonumber(ARGV[2])
	local window = tonumber(ARGV[3])
	local now = tonumber(ARGV[4])

	local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
	local tokens = tonumber(bucket[1]) or capacity
	local last_refill = tonumber(bucket[2]) or now

	local tokens_to_add = math.floor(((now - last_refill) / window) * refill_rate)
	if tokens_to_add > 0 then
		tokens = math.min(capacity, tokens + tokens_to_add)
		last_refill = now
	end

	local allowed = 0
	if tokens > 0 then
		tokens = tokens - 1
		allowed = 1
	end

	redis.call('HMSET', key, 'tokens', tokens, 'last_refill', last_refill)
	redis.call('EXPIRE', key, window * 2)
	return {allowed, tokens}
`)

// peekScript reports the tokens that would be available now without
// consuming one.
var peekScript = redis.NewScript(`
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local refill_rate = tonumber(ARGV[2])
	local window = tonumber(ARGV[3])
	local now = tonumber(ARGV[4])

	local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
	local tokens = tonumber(bucket[1]) or capacity
	local last_refill = tonumber(bucket[2]) or now

	local tokens_to_add = math.floor(((now - last_refill) / window) * refill_rate)
	if tokens_to_add > 0 then
		tokens = math.min(capacity, tokens + tokens_to_add)
	end
	return tokens
`)

// Decision is the outcome of one Take call.
type Decision struct {
	Allowed   bool
	Remaining int64
}

// TokenBucket is a Redis-backed token bucket shared by every instance of
// the service. Buckets are keyed by caller and action.
type TokenBucket struct {
	redis    redis.Cmdable
	capacity int64
	refill   int64 // tokens added per window
	window   time.Duration
}

// NewTokenBucket creates a bucket holding capacity tokens that refills at
// refillRate tokens per minute.
func NewTokenBucket(client redis.Cmdable, capacity, refillRate int64) *TokenBucket {
	return &TokenBucket{
		redis:    client,
		capacity: capacity,
		refill:   refillRate,
		window:   time.Minute,
	}
}

func (tb *TokenBucket) Capacity() int64 {
	return tb.capacity
}

// Window is the refill period; a drained bucket is full again after it.
func (tb *TokenBucket) Window() time.Duration {
	return tb.window
}

func bucketKey(caller, action string) string {
	return fmt.Sprintf("forum:rate_limit:%s:%s", action, caller)
}

func (tb *TokenBucket) args() []interface{} {
	return []interface{}{tb.capacity, tb.refill, int64(tb.window.Seconds()), time.Now().Unix()}
}

// Take consumes a token for caller's action if one is available.
func (tb *TokenBucket) Take(ctx context.Context, caller, action string) (Decision, error) {
	result, err := takeScript.Run(ctx, tb.redis, []string{bucketKey(caller, action)}, tb.args()...).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit check failed: %w", err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return Decision{}, fmt.Errorf("unexpected result from rate limit script: %v", result)
	}
	allowed, ok1 := values[0].(int64)
	remaining, ok2 := values[1].(int64)
	if !ok1 || !ok2 {
		return Decision{}, fmt.Errorf("unexpected result from rate limit script: %v", result)
	}

	return Decision{Allowed: allowed == 1, Remaining: remaining}, nil
}

// Remaining returns the tokens caller has left for action.
func (tb *TokenBucket) Remaining(ctx context.Context, caller, action string) (int64, error) {
	result, err := peekScript.Run(ctx, tb.redis, []string{bucketKey(caller, action)}, tb.args()...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get remaining tokens: %w", err)
	}

	remaining, ok := result.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected result from remaining tokens script: %v", result)
	}
	return remaining, nil
}

// Reset refills caller's bucket for action.
func (tb *TokenBucket) Reset(ctx context.Context, caller, action string) error {
	return tb.redis.Del(ctx, bucketKey(caller, action)).Err()
}
