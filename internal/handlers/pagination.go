package handlers

import (
	"fmt"
	"strconv"
)

func parsePaginationParams(pageStr, limitStr string, defaultLimit int64) (int64, int64, error) {
	page := int64(1)
	limit := defaultLimit

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, fmt.Errorf("invalid page: %q", pageStr)
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 {
			return 0, 0, fmt.Errorf("invalid limit: %q", limitStr)
		}
		limit = l
	}

	return page, limit, nil
}

func totalPages(total, limit int64) int64 {
	if total <= 0 || limit <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}
