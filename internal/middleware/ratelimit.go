package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimit applies a fixed-window counter per client and route: `limit`
// requests per `window`, keyed on the authenticated user id when present
// and the remote IP otherwise.  The counter lives in Redis so the limit
// holds across replicas.  When Redis is unavailable the limiter fails
// open: availability of the API wins over precision of the limit.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rdb == nil || limit <= 0 {
				return next(c)
			}
			key := rateKey(c, window)
			ctx := c.Request().Context()

			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				return next(c)
			}
			if n == 1 {
				_ = rdb.Expire(ctx, key, window).Err()
			}

			remaining := int64(limit) - n
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if n > int64(limit) {
				retry := int(window / time.Second)
				c.Response().Header().Set("Retry-After", strconv.Itoa(retry))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"retry_after": retry,
				})
			}
			return next(c)
		}
	}
}

// rateKey builds the window-scoped counter key.  Embedding the window index
// in the key makes expiry races harmless: a new window is simply a new key.
func rateKey(c echo.Context, window time.Duration) string {
	who := c.RealIP()
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		who = "u:" + v
	} else if v := c.Get("user_id"); v != nil {
		who = fmt.Sprintf("u:%v", v)
	}
	slot := time.Now().Unix() / int64(window/time.Second)
	return fmt.Sprintf("rl:%s:%s %s:%d", who, c.Request().Method, c.Path(), slot)
}
