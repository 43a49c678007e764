package middleware

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimitConfig defines the configuration for rate limiting
type RateLimitConfig struct {
	// Requests is the maximum number of requests allowed within the window
	Requests int
	// Window is the time window for rate limiting
	Window time.Duration
	// KeyFunc returns the key requests are counted under (defaults to IP)
	KeyFunc func(c echo.Context) string
	// Skipper excludes requests from counting
	Skipper func(c echo.Context) bool
	// Message is the error message returned when rate limit is exceeded
	Message string
}

// RateLimiter counts requests per key in an in-memory store
type RateLimiter struct {
	config   RateLimitConfig
	instance *limiter.Limiter
}

// NewRateLimiter creates a new rate limiter with the given configuration
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c echo.Context) string {
			return c.RealIP()
		}
	}
	if config.Message == "" {
		config.Message = "Too many requests. Please try again later."
	}

	rate := limiter.Rate{
		Period: config.Window,
		Limit:  int64(config.Requests),
	}

	return &RateLimiter{
		config:   config,
		instance: limiter.New(memory.NewStore(), rate),
	}
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rl.config.Skipper != nil && rl.config.Skipper(c) {
				return next(c)
			}

			ctx, err := rl.instance.Get(c.Request().Context(), rl.config.KeyFunc(c))
			if err != nil {
				// Fail open
				log.Printf("[WARNING] rate limiter unavailable: %v", err)
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(ctx.Limit, 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(ctx.Remaining, 10))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(ctx.Reset, 10))

			if ctx.Reached {
				return echo.NewHTTPError(http.StatusTooManyRequests, rl.config.Message)
			}
			return next(c)
		}
	}
}

// APIRateLimiter builds the global limiter; only /api paths are counted
func APIRateLimiter(requests int, window time.Duration) *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Requests: requests,
		Window:   window,
		Message:  "Too many requests from this IP, please try again later.",
		Skipper: func(c echo.Context) bool {
			return !strings.HasPrefix(c.Request().URL.Path, "/api")
		},
	})
}

// OrderSubmitRateLimiter limits public order submissions to 10 per minute per IP
func OrderSubmitRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
		Message:  "Too many orders submitted. Please wait before trying again.",
	})
}
