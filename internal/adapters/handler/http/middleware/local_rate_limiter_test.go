package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLocalRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewLocalRateLimiter(3, time.Minute)
	router := gin.New()
	router.Use(limiter.Middleware())
	router.POST("/api/suggestions", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(ip string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/suggestions", nil)
		req.RemoteAddr = ip + ":40000"
		router.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 3; i++ {
		w := send("10.0.0.1")
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	}

	blocked := send("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Contains(t, blocked.Body.String(), `"error":"rate limited"`)
	assert.Equal(t, "0", blocked.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, send("10.0.0.2").Code, "other clients keep their own bucket")
}
