package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// SetRedisClient installs the client shared by the Redis limiters. With a nil
// client they count in process memory instead.
func SetRedisClient(client *redis.Client) {
	redisClient = client
}

// incr bumps key and sets its expiry on first use.
func incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	val, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if val == 1 {
		// first increment, set expiry
		redisClient.Expire(ctx, key, window)
	}
	return val, nil
}

// RedisRateLimit implements a simple fixed-window rate limiter using Redis INCR/EXPIRE.
// key format: rl:<window_seconds>:<identifier>
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	fallback := newMemoryWindow(window)
	return func(c *gin.Context) {
		ident := c.ClientIP()

		var val int64
		if redisClient == nil {
			val = fallback.hit(ident)
		} else {
			key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + ident
			var err error
			val, err = incr(c.Request.Context(), key, window)
			if err != nil {
				// on Redis error, fail-open (allow) but set header
				c.Header("X-RateLimit-Error", "redis-error")
				c.Next()
				return
			}
		}

		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}

// UserRateLimit limits requests per authenticated user rather than per IP.
// Requires JWT middleware to run before this.
func UserRateLimit(name string, maxRequests int, window time.Duration) gin.HandlerFunc {
	fallback := newMemoryWindow(window)
	return func(c *gin.Context) {
		sess := SessionFrom(c)
		if sess == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		var val int64
		if redisClient == nil {
			val = fallback.hit(sess.UserID)
		} else {
			key := name + "_rl:" + sess.UserID + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
			var err error
			val, err = incr(c.Request.Context(), key, window)
			if err != nil {
				c.Header("X-RateLimit-Error", "redis-error")
				c.Next()
				return
			}
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(maxRequests)-val), 10))

		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(name + ":" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       name + " rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues(name + ":" + c.FullPath()).Inc()
		c.Next()
	}
}
