package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/posts", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCors(t *testing.T) {
	router := newRouter(Cors("https://connect3.example"))

	t.Run("handles OPTIONS preflight request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/posts", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "https://connect3.example", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("passes POST request to next handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/posts", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://connect3.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(1, 2)
	now := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	router := newRouter(limiter.Middleware())

	do := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("burst then reject", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do("10.0.0.1:1000"))
		assert.Equal(t, http.StatusOK, do("10.0.0.1:1000"))
		assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1000"))
	})

	t.Run("clients have separate budgets", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do("10.0.0.2:1000"))
	})

	t.Run("tokens refill over time", func(t *testing.T) {
		now = now.Add(time.Second)
		assert.Equal(t, http.StatusOK, do("10.0.0.1:1000"))
	})

	t.Run("idle clients are forgotten", func(t *testing.T) {
		now = now.Add(2 * idleLimiterTTL)
		do("10.0.0.3:1000")

		limiter.mu.Lock()
		defer limiter.mu.Unlock()
		assert.Len(t, limiter.clients, 1)
	})
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(50 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
