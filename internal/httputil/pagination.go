package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Pagination defaults for list endpoints.
const (
	DefaultLimit = 50
	MaxLimit     = 1000
)

// ParsePagination safely parses and validates skip and limit query parameters.
// It uses default values of 0 for skip and DefaultLimit for limit.
// The limit cannot exceed MaxLimit.
func ParsePagination(c *gin.Context) (skip, limit int, err error) {
	skipStr := c.DefaultQuery("skip", "0")
	skip, err = strconv.Atoi(skipStr)
	if err != nil || skip < 0 {
		return 0, 0, fmt.Errorf("invalid skip parameter: must be a non-negative integer")
	}

	limitStr := c.DefaultQuery("limit", strconv.Itoa(DefaultLimit))
	limit, err = strconv.Atoi(limitStr)
	if err != nil || limit < 1 || limit > MaxLimit {
		return 0, 0, fmt.Errorf("invalid limit parameter: must be between 1 and %d", MaxLimit)
	}

	return skip, limit, nil
}

// ParseBool parses an optional boolean query parameter. Missing parameters yield false.
func ParseBool(c *gin.Context, name string) (bool, error) {
	value, ok := c.GetQuery(name)
	if !ok || value == "" {
		return false, nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s parameter: must be a boolean", name)
	}
	return parsed, nil
}
