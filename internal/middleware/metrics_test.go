package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecordsRouteTemplate(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry(), "recruiters")

	r := gin.New()
	r.Use(metrics.Middleware())
	r.GET("/api/jobs/:jobId", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", metrics.Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/jobs/42", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()

	assert.Contains(t, body, `recruiters_http_requests_total{method="GET",route="/api/jobs/:jobId",status="200"} 1`)
	assert.Contains(t, body, "recruiters_http_request_duration_seconds")
}
