package model

import (
	"fmt"
	"strconv"
	"strings"
)

// KeyPrefix 单元格状态类型
type KeyPrefix string

const (
	PrefixCompleted KeyPrefix = "completed"
	PrefixPlanned   KeyPrefix = "planned"
)

// CellKey 单元格（周, 训练列）的稳定标识
//
// Column 保存规范化后的列名：小写，空格替换为下划线。
// 因此 "Session 1" 与 "session_1" 是同一个 key。
type CellKey struct {
	Prefix KeyPrefix
	Week   int
	Column string
}

// NormalizeColumn 规范化列名
func NormalizeColumn(column string) string {
	return strings.ReplaceAll(strings.ToLower(column), " ", "_")
}

// NewCellKey 创建单元格 key
func NewCellKey(prefix KeyPrefix, week int, column string) CellKey {
	return CellKey{
		Prefix: prefix,
		Week:   week,
		Column: NormalizeColumn(column),
	}
}

// CompletionKey 完成状态 key
func CompletionKey(week int, column string) CellKey {
	return NewCellKey(PrefixCompleted, week, column)
}

// PlannedKey 计划日期 key
func PlannedKey(week int, column string) CellKey {
	return NewCellKey(PrefixPlanned, week, column)
}

// Completed 返回同一单元格的完成状态 key
func (k CellKey) Completed() CellKey {
	k.Prefix = PrefixCompleted
	return k
}

// Planned 返回同一单元格的计划日期 key
func (k CellKey) Planned() CellKey {
	k.Prefix = PrefixPlanned
	return k
}

// String 序列化形式：{prefix}_{week}_{column}
func (k CellKey) String() string {
	return fmt.Sprintf("%s_%d_%s", k.Prefix, k.Week, k.Column)
}

// ParseCellKey 解析 String() 生成的 key
func ParseCellKey(s string) (CellKey, error) {
	var prefix KeyPrefix
	var rest string
	switch {
	case strings.HasPrefix(s, string(PrefixCompleted)+"_"):
		prefix = PrefixCompleted
		rest = strings.TrimPrefix(s, string(PrefixCompleted)+"_")
	case strings.HasPrefix(s, string(PrefixPlanned)+"_"):
		prefix = PrefixPlanned
		rest = strings.TrimPrefix(s, string(PrefixPlanned)+"_")
	default:
		return CellKey{}, fmt.Errorf("unknown cell key prefix: %q", s)
	}

	weekPart, column, ok := strings.Cut(rest, "_")
	if !ok || column == "" {
		return CellKey{}, fmt.Errorf("malformed cell key: %q", s)
	}
	week, err := strconv.Atoi(weekPart)
	if err != nil || week < 0 || strconv.Itoa(week) != weekPart {
		return CellKey{}, fmt.Errorf("malformed week in cell key: %q", s)
	}

	return CellKey{Prefix: prefix, Week: week, Column: column}, nil
}
