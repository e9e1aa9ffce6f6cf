package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig config for the Redis-based fixed-window limiter.
type RateLimitConfig struct {
	Redis     *redis.Client
	RPS       int           // allowed requests per window per client IP
	KeyPrefix string        // e.g. "rl:ip:"
	Window    time.Duration // usually 1s
}

// RateLimitMiddleware applies a fixed-window per-IP request limit to the
// tool endpoints. Without Redis or a positive RPS it is a pass-through,
// so local development needs neither.
func RateLimitMiddleware(cfg RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Window <= 0 {
		cfg.Window = time.Second
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "rl:ip:"
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.RPS <= 0 || cfg.Redis == nil {
				return next(c)
			}

			now := time.Now()
			key := cfg.KeyPrefix + c.RealIP() + ":" + strconv.FormatInt(now.Unix(), 10)

			// INCR plus expiry of 2*window so stale keys clean themselves up
			pipe := cfg.Redis.Pipeline()
			cnt := pipe.Incr(c.Request().Context(), key)
			pipe.Expire(c.Request().Context(), key, cfg.Window*2)
			if _, err := pipe.Exec(c.Request().Context()); err != nil {
				// redis down must not take the API with it
				return next(c)
			}

			if cnt.Val() > int64(cfg.RPS) {
				remain := cfg.Window - time.Duration(now.UnixNano()%int64(cfg.Window))
				if remain > 0 {
					c.Response().Header().Set("Retry-After", strconv.Itoa(int(remain.Round(time.Second)/time.Second)))
				}
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limited"})
			}
			return next(c)
		}
	}
}
