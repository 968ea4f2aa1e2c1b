package parser

import (
	"strings"
)

// NormalizeHeader 规范化表头：去除首尾空白和 BOM
func NormalizeHeader(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.TrimSpace(name)
}

// IsSessionColumn 是否为训练列（列名以 session 开头，不区分大小写）
func IsSessionColumn(name string) bool {
	return strings.HasPrefix(strings.ToLower(NormalizeHeader(name)), "session")
}

// HeaderEquals 表头比较（忽略大小写和首尾空白）
func HeaderEquals(name, want string) bool {
	return strings.EqualFold(NormalizeHeader(name), want)
}

// ContainsAny 检查字符串是否包含任意一个关键词
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
