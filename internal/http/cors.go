package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// dashboardCORS lists what the operator dashboard needs: reading alerts and queue state,
// posting jobs and patching acknowledgements.
var dashboardCORS = cors.Config{
	AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch},
	AllowHeaders:  []string{"Content-Type", "X-Request-Id"},
	ExposeHeaders: []string{"X-Request-Id", "Retry-After"},
	MaxAge:        12 * time.Hour,
}

// createCORSMiddleware returns a CORS middleware for the operator dashboard, or nil when
// CORS is disabled or no usable origin is configured. allowOriginsStr is a comma-separated
// list; "*" allows every origin.
func createCORSMiddleware(enabled bool, allowOriginsStr string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins, rejected := parseOrigins(allowOriginsStr)
	for _, origin := range rejected {
		logger.Warn("ignoring invalid CORS origin", slog.String("origin", origin))
	}
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no valid origins configured, CORS will not be applied")
		return nil
	}

	config := dashboardCORS
	if len(origins) == 1 && origins[0] == "*" {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}

	logger.Info("CORS enabled", slog.Any("origins", origins))
	return cors.New(config)
}

// parseOrigins splits a comma-separated origin list. Blank items are dropped and items
// that are not a bare http(s) scheme://host[:port] are returned as rejected. A "*" item
// wins over every other origin.
func parseOrigins(originsStr string) (origins, rejected []string) {
	for _, part := range strings.Split(originsStr, ",") {
		origin := strings.TrimRight(strings.TrimSpace(part), "/")
		switch {
		case origin == "":
			continue
		case origin == "*":
			return []string{"*"}, rejected
		case validOrigin(origin):
			origins = append(origins, origin)
		default:
			rejected = append(rejected, origin)
		}
	}
	return origins, rejected
}

func validOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Path == "" && u.RawQuery == "" && u.User == nil
}
