package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/AlexMcLaughlin1/sessions/internal/calendar"
	"github.com/AlexMcLaughlin1/sessions/internal/model"
	"github.com/AlexMcLaughlin1/sessions/internal/parser"
)

const (
	WeekCommencingColumn = "Week Commencing"
	WeekLabelColumn      = "Week"
)

var (
	ErrEmptyPlan         = errors.New("plan has no rows")
	ErrMissingWeekColumn = errors.New("plan needs a 'Week Commencing' column")
	ErrNoSessionColumns  = errors.New("plan needs at least one session column like 'Session 1'")
	ErrInvalidDate       = errors.New("week commencing value could not be parsed as a date")
	ErrUnsupportedFormat = errors.New("unsupported plan file format")
)

// LoadOptions 加载选项
type LoadOptions struct {
	Sheet string // xlsx 工作表名，为空取第一个
}

// Table 原始表格：首行为表头
type Table struct {
	Header []string
	Rows   [][]string
	// 数字单元格按 Excel 日期序列号解析（仅 xlsx）
	SerialDates bool
}

// LoadPlan 读取训练计划文件（.csv / .xlsx）
func LoadPlan(path string, opts LoadOptions) (*model.Plan, error) {
	table, err := ReadTable(path, opts)
	if err != nil {
		return nil, err
	}
	plan, err := BuildPlan(table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	plan.SourcePath = path
	return plan, nil
}

// ReadTable 按扩展名读取表格
func ReadTable(path string, opts LoadOptions) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open plan: %w", err)
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open excel: %w", err)
		}
		defer func() { _ = f.Close() }()
		return ReadWorkbook(f, opts.Sheet)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ReadCSV 读取 CSV（兼容 UTF-8 BOM）
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return newTable(records, false), nil
}

// ReadWorkbook 读取工作表（原始单元格值，日期为序列号）
func ReadWorkbook(f *excelize.File, sheet string) (*Table, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return newTable(rows, true), nil
}

func newTable(records [][]string, serialDates bool) *Table {
	table := &Table{SerialDates: serialDates}
	if len(records) == 0 {
		return table
	}
	table.Header = make([]string, len(records[0]))
	for i, h := range records[0] {
		table.Header[i] = parser.NormalizeHeader(h)
	}
	for _, row := range records[1:] {
		if isBlankRow(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// uniqueColumnName 重复列名依次追加 ".1"、".2"
func uniqueColumnName(name string, taken map[string]int) string {
	if _, dup := taken[name]; !dup {
		return name
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s.%d", name, n)
		if _, dup := taken[candidate]; !dup {
			return candidate
		}
	}
}

// BuildPlan 校验表头并生成训练计划
//
// 周起始日只取首行日期对齐后推算，忽略其余行的原始日期。
func BuildPlan(table *Table) (*model.Plan, error) {
	weekIdx := -1
	labelIdx := -1
	colIndex := make(map[string]int)
	var sessionCols []string

	for i, h := range table.Header {
		switch {
		case parser.HeaderEquals(h, WeekCommencingColumn):
			if weekIdx < 0 {
				weekIdx = i
			}
		case parser.HeaderEquals(h, WeekLabelColumn):
			if labelIdx < 0 {
				labelIdx = i
			}
		case parser.IsSessionColumn(h):
			name := uniqueColumnName(h, colIndex)
			colIndex[name] = i
			sessionCols = append(sessionCols, name)
		}
	}

	if weekIdx < 0 {
		return nil, ErrMissingWeekColumn
	}
	if len(sessionCols) == 0 {
		return nil, ErrNoSessionColumns
	}
	if len(table.Rows) == 0 {
		return nil, ErrEmptyPlan
	}

	getValue := func(row []string, idx int) string {
		if idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	rows := make([]model.PlanRow, 0, len(table.Rows))
	for i, raw := range table.Rows {
		dateText := getValue(raw, weekIdx)
		day, err := ParseDate(dateText, table.SerialDates)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %q", ErrInvalidDate, i+2, dateText)
		}

		label := getValue(raw, labelIdx)
		if label == "" {
			label = strconv.Itoa(i + 1)
		}

		sessions := make(map[string]string, len(sessionCols))
		for _, col := range sessionCols {
			sessions[col] = getValue(raw, colIndex[col])
		}

		rows = append(rows, model.PlanRow{
			Index:      i,
			Label:      label,
			SourceDate: day,
			Sessions:   sessions,
		})
	}

	starts := calendar.WeekStarts(calendar.Align(rows[0].SourceDate), len(rows))
	for i := range rows {
		rows[i].WeekCommencing = starts[i]
	}

	return &model.Plan{
		SessionColumns: sessionCols,
		Rows:           rows,
	}, nil
}
