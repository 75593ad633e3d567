package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ristorante/site/pkg/logger"
	"github.com/ristorante/site/pkg/metrics"
)

// windowLimiter counts requests per key in fixed windows shared by every
// replica. Each window allows floor(rps*window)+burst requests.
type windowLimiter struct {
	client  *redis.Client
	scope   string
	window  int64
	allowed int64
	now     func() time.Time
}

// RedisRateLimitMiddleware limits per subject or client IP in fixed windows
// kept in Redis. scope keeps separate limits (e.g. "login" and "global")
// apart. A nil client falls back to the in-memory limiter; a Redis error
// lets the request through.
func RedisRateLimitMiddleware(client *redis.Client, scope string, rps float64, burst int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return RateLimitMiddleware(rps, burst)
	}
	return newWindowLimiter(client, scope, rps, burst, window).handle
}

func newWindowLimiter(client *redis.Client, scope string, rps float64, burst int, window time.Duration) *windowLimiter {
	secs := int64(window / time.Second)
	if secs <= 0 {
		secs = 1
	}
	return &windowLimiter{
		client:  client,
		scope:   scope,
		window:  secs,
		allowed: int64(rps*float64(secs)) + int64(burst),
		now:     time.Now,
	}
}

func (l *windowLimiter) handle(c *gin.Context) {
	now := l.now().Unix()
	bucket := now / l.window
	key := fmt.Sprintf("rl:%s:%s:%d", l.scope, rateKey(c), bucket)

	ctx := c.Request.Context()
	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		p.Expire(ctx, key, time.Duration(l.window+1)*time.Second)
		return nil
	})
	if err != nil {
		logger.Warnf("rate limit %s: redis unavailable, letting request through: %v", l.scope, err)
		c.Next()
		return
	}

	count := incr.Val()
	remaining := l.allowed - count
	if remaining < 0 {
		remaining = 0
	}
	c.Header("X-RateLimit-Limit", strconv.FormatInt(l.allowed, 10))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

	if count > l.allowed {
		retry := (bucket+1)*l.window - now
		c.Header("Retry-After", strconv.FormatInt(retry, 10))
		metrics.RateLimitRejected.WithLabelValues("redis").Inc()
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
		return
	}
	metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
	c.Next()
}
