package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.ObserveStage("case", "extract", "ok", time.Second)
	c.ProviderError("search", "TIMEOUT")
	c.QueueDepth(3)
	c.QueueTask("case", "enqueued")
	c.CaseTransition("resolved")
	assert.Nil(t, c.Registry())
}

func TestCollectorCounts(t *testing.T) {
	c := NewCollector()
	c.ObserveStage("case", "extract", "ok", 10*time.Millisecond)
	c.ObserveStage("case", "extract", "fallback", 10*time.Millisecond)
	c.ProviderError("completion", "UPSTREAM_ERROR")
	c.QueueTask("assignment", "rejected")

	assert.Equal(t, 1.0, testutil.ToFloat64(c.stageTotal.WithLabelValues("case", "extract", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.providerErrs.WithLabelValues("completion", "UPSTREAM_ERROR")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.queueTasks.WithLabelValues("assignment", "rejected")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := NewCollector()

	r := gin.New()
	r.Use(c.Middleware())
	r.GET("/api/cases/:id", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(c.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cases/abc", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `beacon_http_requests_total{method="GET",path="/api/cases/:id",status="200"} 1`), body)
}
