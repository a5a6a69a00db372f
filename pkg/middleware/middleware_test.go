package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"message-board/backend/pkg/errors"
	"message-board/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perform(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewRateLimiter(logger.Discard(), RateLimiterOptions{
		Limit:          1,
		Burst:          2,
		ExpiryDuration: time.Hour,
	})

	r := gin.New()
	r.Use(errors.ErrorHandler())
	r.Use(limiter.Middleware())
	r.GET("/organizations/:organizationId/messages", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/organizations/a/messages", nil).Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/organizations/a/messages", nil).Code)

	w := perform(r, http.MethodGet, "/organizations/a/messages", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")

	// switching organization does not reset the bucket
	assert.Equal(t, http.StatusTooManyRequests, perform(r, http.MethodGet, "/organizations/b/messages", nil).Code)
	assert.Len(t, limiter.clients, 1)
}

func TestRateLimiterCleanup(t *testing.T) {
	limiter := NewRateLimiter(logger.Discard(), RateLimiterOptions{Limit: 1, Burst: 1, ExpiryDuration: time.Millisecond})
	limiter.getLimiter("stale")
	time.Sleep(5 * time.Millisecond)

	limiter.cleanup()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.Empty(t, limiter.clients)
}

func TestHTTPMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	metrics, err := NewHTTPMetrics(reg)
	require.NoError(t, err)

	r := gin.New()
	r.Use(metrics.Middleware())
	r.GET("/things/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	perform(r, http.MethodGet, "/things/1", nil)
	perform(r, http.MethodGet, "/things/2", nil)
	perform(r, http.MethodGet, "/nowhere", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "/things/:id", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "unmatched", "404")))

	_, err = NewHTTPMetrics(reg)
	assert.Error(t, err, "registering twice must fail")
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"https://app.example"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.OPTIONS("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodGet, "/ping", map[string]string{"Origin": "https://app.example"})
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(r, http.MethodGet, "/ping", map[string]string{"Origin": "https://evil.example"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(r, http.MethodOptions, "/ping", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, strings.Contains(w.Header().Get("Access-Control-Expose-Headers"), "Location"))
}
