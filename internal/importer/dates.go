package importer

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/AlexMcLaughlin1/sessions/internal/calendar"
)

// 日在前（英式）日期格式，ISO 格式优先
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2.1.2006",
	"02/01/06",
	"2/1/06",
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"Mon 2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate 解析周起始日期
// allowSerial 为 true 时接受 Excel 日期序列号（如 45663）
func ParseDate(s string, allowSerial bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}

	if allowSerial {
		if serial, err := strconv.ParseFloat(s, 64); err == nil {
			t, err := excelize.ExcelDateToTime(serial, false)
			if err != nil {
				return time.Time{}, err
			}
			return calendar.Day(t), nil
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return calendar.Day(t), nil
		}
	}
	return time.Time{}, errors.New("unrecognized date format: " + s)
}
