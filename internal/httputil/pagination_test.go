package httputil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/remediation/internal/httputil"
)

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limits := httputil.PageLimits{Default: 20, Max: 40}

	tests := []struct {
		name           string
		url            string
		expectedOffset int
		expectedLimit  int
		errorContains  string
	}{
		{name: "defaults", url: "/", expectedLimit: 20},
		{name: "blank values fall back", url: "/?offset=&limit=", expectedLimit: 20},
		{name: "custom window", url: "/?offset=10&limit=5", expectedOffset: 10, expectedLimit: 5},
		{name: "limit at max", url: "/?limit=40", expectedLimit: 40},
		{name: "negative offset", url: "/?offset=-1", errorContains: "offset: must be no less than 0"},
		{name: "offset not an integer", url: "/?offset=abc", errorContains: "offset: must be an integer"},
		{name: "zero limit", url: "/?limit=0", errorContains: "limit: must be no less than 1"},
		{name: "limit above max", url: "/?limit=41", errorContains: "limit: must be no greater than 40"},
		{name: "limit not an integer", url: "/?limit=xyz", errorContains: "limit: must be an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, tt.url, nil)

			offset, limit, err := httputil.ParsePagination(c, limits)

			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				assert.Zero(t, offset)
				assert.Zero(t, limit)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedOffset, offset)
			assert.Equal(t, tt.expectedLimit, limit)
		})
	}
}

func TestPageLimits(t *testing.T) {
	assert.LessOrEqual(t, httputil.AlertPage.Default, httputil.AlertPage.Max)
	assert.LessOrEqual(t, httputil.DeadLetterPage.Default, httputil.DeadLetterPage.Max)
}
