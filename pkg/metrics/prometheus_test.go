package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareRecordsRouteTemplates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics("skybook")

	engine := gin.New()
	engine.Use(m.Middleware())
	engine.GET("/api/flights/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/metrics", gin.WrapH(m.Handler()))

	for _, path := range []string{"/api/flights/SK101", "/api/flights/SK102", "/nowhere"} {
		engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/flights/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `skybook_http_requests_total{method="GET",route="/api/flights/:id",status="200"} 2`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestSeparateRegistries(t *testing.T) {
	a := NewMetrics("skybook")
	b := NewMetrics("skybook")

	a.EmailsSent.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.EmailsSent))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.EmailsSent))
}
