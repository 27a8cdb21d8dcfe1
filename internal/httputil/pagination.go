package httputil

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"
)

// PageLimits bounds the limit query parameter of a listing endpoint.
type PageLimits struct {
	Default int
	Max     int
}

var (
	// AlertPage bounds the dashboard alert listing.
	AlertPage = PageLimits{Default: 50, Max: 200}
	// DeadLetterPage bounds the dead-letter listing.
	DeadLetterPage = PageLimits{Default: 50, Max: 100}
)

// ParsePagination reads offset and limit from the query string. A missing offset is 0
// and a missing limit takes the endpoint default.
func ParsePagination(c *gin.Context, limits PageLimits) (offset, limit int, err error) {
	if offset, err = queryInt(c, "offset", 0); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt(c, "limit", limits.Default); err != nil {
		return 0, 0, err
	}

	err = validation.Errors{
		"offset": validation.Validate(offset, validation.Min(0)),
		"limit":  validation.Validate(limit, validation.Min(1), validation.Max(limits.Max)),
	}.Filter()
	if err != nil {
		return 0, 0, err
	}

	return offset, limit, nil
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw, ok := c.GetQuery(key)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validation.Errors{key: validation.NewError("validation_is_int", "must be an integer")}
	}
	return value, nil
}
