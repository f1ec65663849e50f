package ratelimit

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apierrors "github.com/carsmart/recipes-api/internal/shared/errors"
)

// Options configures the gin middleware.
type Options struct {
	Store      *Store
	Stats      StatsRecorder
	Logger     *slog.Logger
	KeyHeader  string
	RetryAfter time.Duration
}

// Middleware rejects requests above the per-client rate with 429 and a Retry-After header.
// The client key is KeyHeader when present, otherwise gin's client IP.
func Middleware(opts Options) gin.HandlerFunc {
	if opts.RetryAfter <= 0 {
		opts.RetryAfter = time.Second
	}
	retryAfter := strconv.Itoa(int(math.Ceil(opts.RetryAfter.Seconds())))
	return func(c *gin.Context) {
		if opts.Store == nil {
			c.Next()
			return
		}
		key := clientKey(c, opts.KeyHeader)
		allowed := opts.Store.Get(key).Allow()
		if opts.Stats != nil {
			route := c.FullPath()
			if route == "" {
				route = c.Request.URL.Path
			}
			ev := Event{Key: key, Allowed: allowed, Method: c.Request.Method, Route: route, At: time.Now()}
			if err := opts.Stats.Record(c.Request.Context(), ev); err != nil && opts.Logger != nil {
				opts.Logger.Warn("failed to record rate limit decision", slog.String("error", err.Error()))
			}
		}
		if !allowed {
			c.Header("Retry-After", retryAfter)
			apierrors.Respond(c, apierrors.ErrTooManyRequests.WithDetail("rate limit exceeded, retry later"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func clientKey(c *gin.Context, header string) string {
	if header != "" {
		if v := strings.TrimSpace(c.GetHeader(header)); v != "" {
			return v
		}
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
