package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/config"
)

// RateLimiter bounds credential-guessing attempts per client using a redis
// fixed window. When redis is unreachable requests pass through: losing the
// limiter must not take login down with it.
type RateLimiter struct {
	client *redis.Client
	logger *zap.Logger
	limit  int
	window time.Duration
}

// NewRateLimiter constructs the limiter.
func NewRateLimiter(client *redis.Client, logger *zap.Logger, cfg config.RateLimitConfig) *RateLimiter {
	limit := cfg.LoginAttempts
	if limit <= 0 {
		limit = 10
	}
	windowSec := cfg.WindowSeconds
	if windowSec <= 0 {
		windowSec = 60
	}
	return &RateLimiter{
		client: client,
		logger: logger,
		limit:  limit,
		window: time.Duration(windowSec) * time.Second,
	}
}

// Handle enforces the limit keyed by client IP and route.
func (rl *RateLimiter) Handle(c *fiber.Ctx) error {
	if rl.client == nil {
		return c.Next()
	}

	key := fmt.Sprintf("ratelimit:%s:%s", c.Path(), c.IP())
	count, err := rl.client.Incr(c.Context(), key).Result()
	if err != nil {
		rl.logger.Warn("rate limiter unavailable", zap.Error(err))
		return c.Next()
	}
	if count == 1 {
		rl.client.Expire(c.Context(), key, rl.window)
	}
	if count > int64(rl.limit) {
		return fiber.NewError(http.StatusTooManyRequests, "too many attempts, retry later")
	}
	return c.Next()
}
