package calendar

import (
	"fmt"
	"time"
)

// ISOLayout 日期格式
const ISOLayout = "2006-01-02"

// DayNames 周一到周日
var DayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Date 构造 UTC 零点日期
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Day 截断为 UTC 日期（保留原时区下的年月日）
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// AddDays 日期加减天数
func AddDays(day time.Time, days int) time.Time {
	return day.AddDate(0, 0, days)
}

// Weekday 周一为 0，周日为 6
func Weekday(day time.Time) int {
	return (int(day.Weekday()) + 6) % 7
}

// Align 对齐到周起始日（周一）
//
// 已是周一则原样返回；否则向后推到下一个周一，不会向前。
func Align(day time.Time) time.Time {
	day = Day(day)
	offset := (7 - Weekday(day)) % 7
	return AddDays(day, offset)
}

// WeekStarts 生成 count 个周起始日，第 i 个为 anchor + 7*i 天
func WeekStarts(anchor time.Time, count int) []time.Time {
	if count <= 0 {
		return []time.Time{}
	}
	anchor = Day(anchor)
	starts := make([]time.Time, count)
	for i := range starts {
		starts[i] = AddDays(anchor, 7*i)
	}
	return starts
}

// WeekEnd 周结束日（起始日 + 6 天）
func WeekEnd(start time.Time) time.Time {
	return AddDays(Day(start), 6)
}

// WeekDates 一周七天
func WeekDates(start time.Time) []time.Time {
	start = Day(start)
	dates := make([]time.Time, 7)
	for i := range dates {
		dates[i] = AddDays(start, i)
	}
	return dates
}

// Contains 判断 day 是否落在 [start, start+6] 内
func Contains(start, day time.Time) bool {
	start = Day(start)
	day = Day(day)
	return !day.Before(start) && !day.After(WeekEnd(start))
}

// DaysBetween 返回 b - a 的天数
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// DayLabel 下拉框显示格式: "Mon 2025-01-06"
func DayLabel(day time.Time) string {
	return fmt.Sprintf("%s %s", DayNames[Weekday(day)], FormatISO(day))
}

// FormatISO 格式化为 2006-01-02
func FormatISO(day time.Time) string {
	return day.Format(ISOLayout)
}

// ParseISO 解析 2006-01-02
func ParseISO(s string) (time.Time, error) {
	return time.Parse(ISOLayout, s)
}
