package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// bodyRecorder duplicates the response body into a buffer while streaming
// it to the client, so successful responses can be stored afterwards.
type bodyRecorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	limit  int
}

func (w *bodyRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	if w.buf.Len() < w.limit {
		room := w.limit - w.buf.Len()
		if len(b) <= room {
			w.buf.Write(b)
		} else {
			w.buf.Write(b[:room])
		}
	}
	return w.ResponseWriter.Write(b)
}

// CacheResponses caches successful GET responses of the wrapped routes in
// Redis for ttl.  It is applied only to the public catalog endpoints, whose
// payloads are identical for every caller.  A nil client disables caching
// entirely; any Redis error falls through to the handler.
func CacheResponses(rdb *redis.Client, ttl time.Duration, maxBody int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rdb == nil || c.Request().Method != http.MethodGet {
				return next(c)
			}
			key := "cache:" + c.Path() + "?" + c.Request().URL.RawQuery

			ctx := c.Request().Context()
			if cached, err := rdb.Get(ctx, key).Bytes(); err == nil {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.JSONBlob(http.StatusOK, cached)
			}

			rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			// Store only full 200 JSON bodies that fit the size cap.
			if rec.status == http.StatusOK && rec.buf.Len() > 0 && rec.buf.Len() < maxBody {
				_ = rdb.Set(ctx, key, rec.buf.Bytes(), ttl).Err()
			}
			return nil
		}
	}
}
