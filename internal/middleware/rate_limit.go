package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitConfig configures the rate limiter
type RateLimitConfig struct {
	RequestsPerMinute int     // Redis sliding window
	RequestsPerSecond float64 // in-process token bucket
	Burst             int
	KeyPrefix         string
	Message           string
}

// DefaultRateLimitConfig returns default rate limit configuration
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 120,
		RequestsPerSecond: 2,
		Burst:             20,
		KeyPrefix:         "playint:ratelimit:",
		Message:           "Too many requests. Please try again shortly.",
	}
}

// rateLimitScript is an atomic Lua script for sliding window rate limiting
var rateLimitScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local window_start = now - window

redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
local count = redis.call('ZCARD', key)

if count < limit then
    redis.call('ZADD', key, now, now .. ':' .. math.random(1000000))
    redis.call('EXPIRE', key, math.ceil(window / 1000) + 1)
    return {1, limit - count - 1, 0}
else
    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    local reset_at = 0
    if #oldest >= 2 then
        reset_at = tonumber(oldest[2]) + window
    end
    return {0, 0, reset_at}
end
`)

// localLimiter per-IP token buckets used when Redis is absent or failing
type localLimiter struct {
	mu        sync.Mutex
	clients   map[string]*rate.Limiter
	limit     rate.Limit
	burst     int
	lastSweep time.Time
}

func newLocalLimiter(rps float64, burst int) *localLimiter {
	if burst < 1 {
		burst = 1
	}
	return &localLimiter{
		clients:   make(map[string]*rate.Limiter),
		limit:     rate.Limit(rps),
		burst:     burst,
		lastSweep: time.Now(),
	}
}

func (l *localLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) > time.Minute {
		// 버킷이 가득 찬 클라이언트는 한동안 요청이 없던 것
		for k, lim := range l.clients {
			if lim.TokensAt(now) >= float64(l.burst) {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	lim, ok := l.clients[ip]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.clients[ip] = lim
	}
	return lim.AllowN(now, 1)
}

// RateLimit returns a gin middleware that rate limits by client IP.
// With a Redis client it uses a shared sliding window; without one, or when
// Redis errors, it falls back to an in-process token bucket.
func RateLimit(redisClient *redis.Client, cfg RateLimitConfig) gin.HandlerFunc {
	local := newLocalLimiter(cfg.RequestsPerSecond, cfg.Burst)

	reject := func(c *gin.Context, backend string) {
		rateLimitedTotal.WithLabelValues(backend).Inc()
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"success": false,
			"error":   gin.H{"code": "RATE_LIMITED", "message": cfg.Message},
		})
	}

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		if redisClient != nil {
			now := time.Now().UnixMilli()
			windowMs := int64(60 * 1000) // 1 minute

			ctx, cancel := context.WithTimeout(c.Request.Context(), 500*time.Millisecond)
			result, err := rateLimitScript.Run(ctx, redisClient, []string{cfg.KeyPrefix + clientIP},
				cfg.RequestsPerMinute, windowMs, now,
			).Int64Slice()
			cancel()

			if err == nil {
				allowed := result[0] == 1
				remaining := result[1]
				resetAt := result[2]

				c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerMinute))
				c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

				if !allowed {
					retryAfter := (resetAt - now) / 1000
					if retryAfter < 1 {
						retryAfter = 1
					}
					c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", resetAt/1000))
					c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
					reject(c, "redis")
					return
				}
				c.Next()
				return
			}
			// Redis 오류 시 로컬 버킷으로 대체
		}

		if !local.allow(clientIP) {
			c.Header("Retry-After", "1")
			reject(c, "memory")
			return
		}
		c.Next()
	}
}
