package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"technotes/api/internal/config"
)

// LoginCounter counts login attempts per key within a fixed expiry window.
type LoginCounter interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, window time.Duration) error
}

type redisLoginCounter struct {
	rdb *redis.Client
}

func (c redisLoginCounter) Incr(ctx context.Context, key string) (int64, error) {
	return c.rdb.Incr(ctx, key).Result()
}

func (c redisLoginCounter) Expire(ctx context.Context, key string, window time.Duration) error {
	return c.rdb.Expire(ctx, key, window).Err()
}

// RedisLoginCounter adapts a Redis client to the LoginCounter seam. A nil
// client yields a nil counter, which disables the limiter.
func RedisLoginCounter(rdb *redis.Client) LoginCounter {
	if rdb == nil {
		return nil
	}
	return redisLoginCounter{rdb: rdb}
}

// LoginRateLimit throttles login attempts per client IP with a fixed window.
// The backing store being down must not lock everyone out, so counter errors
// fail open with a warning.
func LoginRateLimit(counter LoginCounter, cfg config.RateLimitConfig, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := "login_attempts:" + c.ClientIP()

		attempts, err := counter.Incr(ctx, key)
		if err != nil {
			log.Warn().Err(err).Msg("login rate limiter unavailable")
			c.Next()
			return
		}
		if attempts == 1 {
			if err := counter.Expire(ctx, key, cfg.LoginWindow); err != nil {
				log.Warn().Err(err).Msg("login rate limiter expire failed")
			}
		}

		if attempts > int64(cfg.LoginMaxAttempts) {
			log.Warn().
				Str("client_ip", c.ClientIP()).
				Int64("attempts", attempts).
				Msg("login rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Too many login attempts from this IP, please try again after a 60 second pause",
			})
			return
		}

		c.Next()
	}
}
