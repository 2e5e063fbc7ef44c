package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter is a fixed-window counter. A nil limiter (no Redis
// configured) allows everything, so the apply path keeps working in
// development setups.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(rateLimitScript),
	}
}

func (l *RedisLimiter) Allow(key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil {
		return true
	}
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{key}, ttl, limit).Int64()
	if err != nil {
		return true
	}
	return allowed == 1
}

// RateLimit guards a route group, keyed by the authenticated user when
// present and the client IP otherwise.
func RateLimit(limiter *RedisLimiter, name string, limit int, window time.Duration) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		key := ctx.IP()
		if userID, ok := ctx.Locals("userID").(uint); ok && userID != 0 {
			key = fmt.Sprintf("u:%d", userID)
		}
		if !limiter.Allow(fmt.Sprintf("rl:%s:%s", name, key), limit, window) {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests",
			})
		}
		return ctx.Next()
	}
}
