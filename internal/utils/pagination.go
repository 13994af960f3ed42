package utils

import "strconv"

// ParsePagination turns 1-based page/limit query values into the numbers the
// aggregation $skip/$limit stages expect. Defaults: page=1, limit=10.
func ParsePagination(pageStr, limitStr string) (skip int64, limit int64) {
	page, err := strconv.ParseInt(pageStr, 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.ParseInt(limitStr, 10, 64)
	if err != nil || limit < 1 {
		limit = 10
	}
	return (page - 1) * limit, limit
}
