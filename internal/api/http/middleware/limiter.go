package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	fiberredis "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"

	"github.com/thanhyclinic/schedule_backend/config"
)

// NewLimiterWithRedis rate-limits per client IP with counters kept in Redis,
// so every instance shares one budget.
func NewLimiterWithRedis(rdb redis.UniversalClient, cfg config.RateLimitConfig) fiber.Handler {
	max := cfg.Max
	if max <= 0 {
		max = 20
	}
	exp := time.Duration(cfg.ExpirationSeconds) * time.Second
	if exp <= 0 {
		exp = 30 * time.Second
	}

	return limiter.New(limiter.Config{
		Storage: fiberredis.NewFromConnection(rdb),

		// sliding window
		Max:               max,
		Expiration:        exp,
		LimiterMiddleware: limiter.SlidingWindow{},
	})
}
