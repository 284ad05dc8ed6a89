package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"hostpanel/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window counter in redis, keyed per user (or client
// IP before auth). It guards the redeem endpoints against gift-code
// guessing. A nil client disables limiting, and redis being down fails open:
// losing the limiter must not take redemptions with it.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(client *redis.Client, cfg config.RedisConfig) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  cfg.RedeemLimit,
		window: cfg.RedeemWindow,
	}
}

func (r *RateLimiter) LimitRedeem(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if r.client == nil || r.limit <= 0 {
			c.Next()
			return
		}

		subject := c.ClientIP()
		if userID, ok := GetUserID(c); ok {
			subject = userID.String()
		}
		rateKey := fmt.Sprintf("rate:%s:%s", scope, subject)

		ctx := c.Request.Context()
		n, err := r.client.Incr(ctx, rateKey).Result()
		if err != nil {
			slog.Warn("rate limiter unavailable, failing open", "error", err)
			c.Next()
			return
		}
		if n == 1 {
			r.client.Expire(ctx, rateKey, r.window)
		}
		if n > int64(r.limit) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}
