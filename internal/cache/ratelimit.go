package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	rateLimitIPPrefix = "carsharing:ratelimit:ip:"
	// minBucketTTL keeps idle buckets around briefly even at high rates.
	minBucketTTL = 10 * time.Second
)

// RateLimitResult is the outcome of spending one token.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// tokenBucketScript refills by elapsed Redis server time and spends one
// token. Using the server clock keeps API replicas with skewed clocks from
// over-refilling a shared bucket.
//
// KEYS[1] bucket, ARGV[1] tokens per second, ARGV[2] capacity, ARGV[3] ttl.
// Reply: {allowed, wait_ms, remaining, now_ms}.
var tokenBucketScript = redis.NewScript(`
redis.replicate_commands()

local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])

local t = redis.call('TIME')
local now_ms = tonumber(t[1]) * 1000 + math.floor(tonumber(t[2]) / 1000)

local state = redis.call('HMGET', KEYS[1], 'tokens', 'ts')
local tokens = tonumber(state[1]) or capacity
local ts = tonumber(state[2]) or now_ms

tokens = math.min(capacity, tokens + math.max(0, now_ms - ts) * rate / 1000)

local allowed, wait_ms = 0, 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
else
	wait_ms = math.ceil((1 - tokens) * 1000 / rate)
end

redis.call('HSET', KEYS[1], 'tokens', tostring(tokens), 'ts', now_ms)
redis.call('EXPIRE', KEYS[1], ARGV[3])

return {allowed, wait_ms, math.floor(tokens), now_ms}
`)

// CheckIPRateLimit spends one token from ip's bucket. IPs are hashed before
// they become Redis keys. A non-positive rate disables limiting.
func (c *Cache) CheckIPRateLimit(ctx context.Context, ip string, ratePerSecond, burst int) (*RateLimitResult, error) {
	if ratePerSecond <= 0 {
		return &RateLimitResult{Allowed: true, Remaining: int64(burst), ResetAt: time.Now()}, nil
	}

	reply, err := tokenBucketScript.Run(ctx, c.client,
		[]string{rateLimitIPPrefix + hashIP(ip)},
		ratePerSecond, burst, ttlSeconds(ratePerSecond, burst),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to run rate limit script: %w", err)
	}

	return parseBucketResult(reply, ratePerSecond)
}

// parseBucketResult decodes {allowed, wait_ms, remaining, now_ms}. ResetAt is
// when the next token becomes available, on the Redis clock.
func parseBucketResult(reply []int64, ratePerSecond int) (*RateLimitResult, error) {
	if len(reply) != 4 {
		return nil, fmt.Errorf("unexpected rate limit reply length %d", len(reply))
	}

	now := time.UnixMilli(reply[3])
	wait := time.Duration(reply[1]) * time.Millisecond
	next := wait
	if next == 0 {
		next = time.Second / time.Duration(ratePerSecond)
	}

	return &RateLimitResult{
		Allowed:    reply[0] == 1,
		Remaining:  reply[2],
		ResetAt:    now.Add(next),
		RetryAfter: wait,
	}, nil
}

// ttlSeconds keeps a bucket at least as long as a full refill takes.
func ttlSeconds(ratePerSecond, burst int) int {
	ttl := int(minBucketTTL / time.Second)
	if refill := burst/ratePerSecond + 1; refill > ttl {
		ttl = refill
	}
	return ttl
}

// hashIP returns the first 8 bytes of the SHA-256 of ip, hex encoded.
func hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:8])
}
