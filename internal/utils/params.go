package utils

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

func GetMonitorID(ctx *gin.Context) (uint, error) {
	monitorID, err := strconv.ParseUint(ctx.Param("monitor_id"), 10, 64)

	if err != nil {
		return 0, fmt.Errorf("invalid monitor ID")
	}

	return uint(monitorID), nil
}

// GetPagination parses skip/limit query parameters, applying the defaults
// and rejecting out-of-bounds values before they reach the paginator.
func GetPagination(ctx *gin.Context) (int, int, error) {
	skip, err := strconv.Atoi(ctx.DefaultQuery("skip", "0"))

	if err != nil || skip < 0 {
		return 0, 0, fmt.Errorf("skip must be a non-negative integer")
	}

	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if err != nil || limit < 1 || limit > maxLimit {
		return 0, 0, fmt.Errorf("limit must be between 1 and %d", maxLimit)
	}

	return skip, limit, nil
}
