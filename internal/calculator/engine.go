package calculator

import (
	"time"

	"github.com/AlexMcLaughlin1/sessions/internal/calendar"
	"github.com/AlexMcLaughlin1/sessions/internal/model"
	"github.com/AlexMcLaughlin1/sessions/internal/parser"
)

// Engine 训练进度计算引擎
type Engine struct {
	plan       *model.Plan
	weekStarts []time.Time
}

// NewEngine 创建计算引擎
func NewEngine(plan *model.Plan) *Engine {
	return &Engine{
		plan:       plan,
		weekStarts: plan.WeekStarts(),
	}
}

// WeekStarts 计划的周起始日
func (e *Engine) WeekStarts() []time.Time {
	return e.weekStarts
}

// Calculate 按当前完成状态计算汇总
func (e *Engine) Calculate(completion model.CompletionState, today time.Time) *model.Stats {
	return Aggregate(e.plan.Rows, e.plan.SessionColumns, e.weekStarts, completion, today)
}

// Aggregate 汇总完成/错过数量、距离、健身次数和计划进度
//
// 只读 completion，不做任何修改。
func Aggregate(rows []model.PlanRow, columns []string, weekStarts []time.Time, completion model.CompletionState, today time.Time) *model.Stats {
	today = calendar.Day(today)
	stats := &model.Stats{
		TotalSessions: len(rows) * len(columns),
	}

	for i, row := range rows {
		if i >= len(weekStarts) {
			break
		}
		weekEnd := calendar.WeekEnd(weekStarts[i])
		for _, col := range columns {
			text := row.Session(col)
			if completion[model.CompletionKey(row.Index, col)] {
				stats.CompletedCount++
				stats.Distances = stats.Distances.Add(parser.ParseDistances(text))
				if parser.ContainsGym(text) {
					stats.GymSessionCount++
				}
			} else if weekEnd.Before(today) {
				stats.MissedCount++
			}
		}
	}

	stats.CompletedPct = percent(stats.CompletedCount, stats.TotalSessions)
	stats.MissedPct = percent(stats.MissedCount, stats.TotalSessions)

	if len(weekStarts) == 0 {
		return stats
	}

	planStart := calendar.Day(weekStarts[0])
	planEnd := calendar.WeekEnd(weekStarts[len(weekStarts)-1])
	stats.PlanProgressPct = planProgress(planStart, planEnd, today)
	stats.DaysRemaining = max(0, calendar.DaysBetween(today, planEnd))
	stats.CurrentWeekIndex = CurrentWeekIndex(weekStarts, today)

	return stats
}

// CurrentWeekIndex 当前所在周
//
// 今天不在任何一周内时：已过计划结束取最后一周，否则为第 0 周。
func CurrentWeekIndex(weekStarts []time.Time, today time.Time) int {
	if len(weekStarts) == 0 {
		return 0
	}
	for i, start := range weekStarts {
		if calendar.Contains(start, today) {
			return i
		}
	}
	planEnd := calendar.WeekEnd(weekStarts[len(weekStarts)-1])
	if calendar.Day(today).After(planEnd) {
		return len(weekStarts) - 1
	}
	return 0
}

// CellStatus 单元格状态：已完成 / 已错过（周已结束）/ 待完成
func CellStatus(done bool, weekStart, today time.Time) model.CellStatus {
	if done {
		return model.CellCompleted
	}
	if calendar.WeekEnd(weekStart).Before(calendar.Day(today)) {
		return model.CellMissed
	}
	return model.CellPending
}

func planProgress(planStart, planEnd, today time.Time) float64 {
	if !today.After(planStart) {
		return 0
	}
	if !today.Before(planEnd) {
		return 100
	}
	planDays := max(1, calendar.DaysBetween(planStart, planEnd)+1)
	return float64(calendar.DaysBetween(planStart, today)) / float64(planDays) * 100
}

// percent 计算百分比，分母为 0 时返回 0
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
