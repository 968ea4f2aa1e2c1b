package exporter

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/AlexMcLaughlin1/sessions/internal/calendar"
	"github.com/AlexMcLaughlin1/sessions/internal/model"
	"github.com/AlexMcLaughlin1/sessions/internal/service/tracker"
)

const (
	PlanSheet    = "Plan"
	SummarySheet = "Summary"
)

// 单元格底色：已完成 / 已错过 / 待完成
var statusColors = map[model.CellStatus]struct{ fill, font string }{
	model.CellCompleted: {fill: "15803D", font: "FFFFFF"},
	model.CellMissed:    {fill: "B91C1C", font: "FFFFFF"},
	model.CellPending:   {fill: "F3F4F6", font: "111827"},
}

// Exporter 训练进度工作簿导出器
type Exporter struct {
	tracker *tracker.Tracker
}

// NewExporter 创建导出器
func NewExporter(t *tracker.Tracker) *Exporter {
	return &Exporter{tracker: t}
}

// Export 生成工作簿：Plan 表格 + Summary 汇总
func (e *Exporter) Export() (*excelize.File, error) {
	return BuildWorkbook(e.tracker.Board())
}

// BuildWorkbook 由表格视图生成工作簿
func BuildWorkbook(board *tracker.Board) (*excelize.File, error) {
	f := excelize.NewFile()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, PlanSheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		_ = f.Close()
		return nil, err
	}

	if err := fillPlanSheet(f, board); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("写入训练表失败: %w", err)
	}
	if err := fillSummarySheet(f, board.Stats); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("写入汇总表失败: %w", err)
	}

	f.SetActiveSheet(0)
	return f, nil
}

func fillPlanSheet(f *excelize.File, board *tracker.Board) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D1D5DB"}},
	})
	if err != nil {
		return err
	}
	statusStyles := make(map[model.CellStatus]int, len(statusColors))
	for status, c := range statusColors {
		style, err := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: c.font},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{c.fill}},
			Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		})
		if err != nil {
			return err
		}
		statusStyles[status] = style
	}

	header := []interface{}{"Week", "Week commencing"}
	for _, col := range board.SessionColumns {
		header = append(header, col)
	}
	if err := f.SetSheetRow(PlanSheet, "A1", &header); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(PlanSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(PlanSheet, "A", "A", 10); err != nil {
		return err
	}
	if err := f.SetColWidth(PlanSheet, "B", "B", 16); err != nil {
		return err
	}
	if len(header) > 2 {
		if err := f.SetColWidth(PlanSheet, "C", lastCol, 28); err != nil {
			return err
		}
	}

	for i, row := range board.Rows {
		excelRow := i + 2
		label := row.Label
		if row.Current {
			label += " (current)"
		}
		if err := setCellValue(f, PlanSheet, cellName(1, excelRow), label); err != nil {
			return err
		}
		if err := setCellValue(f, PlanSheet, cellName(2, excelRow), row.WeekCommencing); err != nil {
			return err
		}
		for j, cell := range row.Cells {
			name := cellName(j+3, excelRow)
			if err := setCellValue(f, PlanSheet, name, cellText(cell)); err != nil {
				return err
			}
			if err := f.SetCellStyle(PlanSheet, name, name, statusStyles[cell.Status]); err != nil {
				return err
			}
		}
	}

	return f.SetPanes(PlanSheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      2,
		YSplit:      1,
		TopLeftCell: "C2",
		ActivePane:  "bottomRight",
	})
}

func cellText(cell tracker.BoardCell) string {
	if cell.PlannedDay == "" {
		return cell.Text
	}
	day, err := calendar.ParseISO(cell.PlannedDay)
	if err != nil {
		return cell.Text
	}
	return fmt.Sprintf("%s (%s)", cell.Text, calendar.DayLabel(day))
}

func fillSummarySheet(f *excelize.File, stats *model.Stats) error {
	if stats == nil {
		stats = &model.Stats{}
	}
	rows := [][]interface{}{
		{"Plan overview", ""},
		{"Sessions completed", fmt.Sprintf("%d / %d", stats.CompletedCount, stats.TotalSessions)},
		{"Sessions completed (%)", roundHalfUp(stats.CompletedPct, 1)},
		{"Sessions missed (%)", roundHalfUp(stats.MissedPct, 1)},
		{"Plan progress (%)", roundHalfUp(stats.PlanProgressPct, 1)},
		{"Days till complete", stats.DaysRemaining},
		{"", ""},
		{"Discipline totals", ""},
		{"Swim completed (km)", roundHalfUp(stats.Distances.Swim, 1)},
		{"Bike completed (km)", roundHalfUp(stats.Distances.Bike, 1)},
		{"Run completed (km)", roundHalfUp(stats.Distances.Run, 1)},
		{"Gym sessions completed", stats.GymSessionCount},
	}
	for i, row := range rows {
		if err := f.SetSheetRow(SummarySheet, cellName(1, i+1), &row); err != nil {
			return err
		}
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	if err != nil {
		return err
	}
	for _, cell := range []string{"A1", "A8"} {
		if err := f.SetCellStyle(SummarySheet, cell, cell, titleStyle); err != nil {
			return err
		}
	}
	return f.SetColWidth(SummarySheet, "A", "A", 26)
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func setCellValue(f *excelize.File, sheet, cell string, value interface{}) error {
	return f.SetCellValue(sheet, cell, value)
}

func roundHalfUp(v float64, digits int) float64 {
	if digits < 0 {
		return v
	}
	scale := math.Pow10(digits)
	x := v * scale
	if x >= 0 {
		return math.Floor(x+0.5) / scale
	}
	return -math.Floor(-x+0.5) / scale
}
