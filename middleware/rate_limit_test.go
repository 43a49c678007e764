package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestNewRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
	})

	assert.NotNil(t, rl)
	assert.Equal(t, 10, rl.config.Requests)
	assert.Equal(t, time.Minute, rl.config.Window)
	assert.NotNil(t, rl.config.KeyFunc)
	assert.Equal(t, "Too many requests. Please try again later.", rl.config.Message)
}

func TestRateLimiterMiddleware(t *testing.T) {
	e := echo.New()
	ok := func(c echo.Context) error {
		return c.String(http.StatusOK, "success")
	}

	t.Run("WithinLimit", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{Requests: 2, Window: time.Minute})
		handler := rl.Middleware()(ok)

		for i := 0; i < 2; i++ {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			assert.NoError(t, handler(c))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("ExceededLimit", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{Requests: 1, Window: time.Minute})
		handler := rl.Middleware()(ok)

		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		assert.NoError(t, handler(c))
		assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

		rec = httptest.NewRecorder()
		c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		err := handler(c)

		assert.Error(t, err)
		he, isHTTP := err.(*echo.HTTPError)
		assert.True(t, isHTTP)
		assert.Equal(t, http.StatusTooManyRequests, he.Code)
	})

	t.Run("SeparateKeys", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{
			Requests: 1,
			Window:   time.Minute,
			KeyFunc: func(c echo.Context) string {
				return c.Request().Header.Get("X-Client")
			},
		})
		handler := rl.Middleware()(ok)

		for _, client := range []string{"a", "b"} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Client", client)
			rec := httptest.NewRecorder()
			assert.NoError(t, handler(e.NewContext(req, rec)))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("Skipper", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{
			Requests: 1,
			Window:   time.Minute,
			Skipper:  func(echo.Context) bool { return true },
		})
		handler := rl.Middleware()(ok)

		for i := 0; i < 3; i++ {
			rec := httptest.NewRecorder()
			assert.NoError(t, handler(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))
		}
	})
}

func TestPresetLimiters(t *testing.T) {
	api := APIRateLimiter(100, 15*time.Minute)
	assert.Equal(t, 100, api.config.Requests)
	assert.Equal(t, 15*time.Minute, api.config.Window)

	e := echo.New()
	assert.True(t, api.config.Skipper(e.NewContext(httptest.NewRequest(http.MethodGet, "/ws", nil), httptest.NewRecorder())))
	assert.False(t, api.config.Skipper(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/orders", nil), httptest.NewRecorder())))

	orders := OrderSubmitRateLimiter()
	assert.Equal(t, 10, orders.config.Requests)
}
