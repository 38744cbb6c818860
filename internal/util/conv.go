package util

import (
	"strconv"
)

// ParseIntDefault 将字符串转换为整数，解析失败或小于 1 时返回默认值
func ParseIntDefault(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

// Pagination 规范化分页参数
func Pagination(pageStr, limitStr string, defaultLimit, maxLimit int) (page, limit, offset int) {
	page = ParseIntDefault(pageStr, 1)
	limit = ParseIntDefault(limitStr, defaultLimit)
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit, (page - 1) * limit
}
