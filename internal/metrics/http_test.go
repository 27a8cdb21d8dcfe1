package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("http_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "http_test"))
	router.GET("/v1/remediation/jobs/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})
	router.POST("/v1/remediation/jobs/process-next", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for _, path := range []string{"/v1/remediation/jobs/a", "/v1/remediation/jobs/b", "/missing"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/remediation/jobs/process-next", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	output := scrape(t, provider)

	assertBizMetricLine(t, output, `http_test_http_requests_total`,
		`method="GET".*path="/v1/remediation/jobs/:id".*status_code="200"`, `2`)
	assertBizMetricLine(t, output, `http_test_http_requests_total`,
		`method="POST".*path="/v1/remediation/jobs/process-next".*status_code="204"`, `1`)
	assertBizMetricLine(t, output, `http_test_http_requests_total`,
		`path="unknown".*status_code="404"`, `1`)
	assertBizMetricLine(t, output, `http_test_http_requests_in_flight`,
		`path="/v1/remediation/jobs/:id"`, `0`)
}

func TestSanitizePath(t *testing.T) {
	assert.Equal(t, "/v1/alerts/:id/acknowledgement", sanitizePath("/v1/alerts/:id/acknowledgement"))
	assert.Equal(t, "unknown", sanitizePath(""))
}
