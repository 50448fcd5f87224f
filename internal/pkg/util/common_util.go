package util

import "strings"

// ContainsFold 大小写不敏感的子串匹配，空串匹配任意值
func ContainsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
