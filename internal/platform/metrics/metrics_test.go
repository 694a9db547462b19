package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })
	r.GET("/metrics", gin.WrapH(Handler()))

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/items/:id", "418"))

	for _, id := range []string{"1", "2", "3"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/items/"+id, nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusTeapot, w.Code)
	}

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/items/:id", "418"))
	assert.Equal(t, before+3, after)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/metrics", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "kanso_coach_http_requests_total")
}

func TestRecorders(t *testing.T) {
	RecordSuggestion("", "ok", 10*time.Millisecond)
	assert.Equal(t, float64(1), testutil.ToFloat64(suggestions.WithLabelValues("unknown", "ok")))

	before := testutil.ToFloat64(trackerCommands.WithLabelValues("toggle", "error"))
	RecordCommand("toggle", errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(trackerCommands.WithLabelValues("toggle", "error")))
}
