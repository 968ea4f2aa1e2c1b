package tracker

import (
	"time"

	"github.com/AlexMcLaughlin1/sessions/internal/model"
)

// UnplannedLabel 未安排日期的下拉选项
const UnplannedLabel = "Unplanned"

// DayOption 计划日期下拉选项
type DayOption struct {
	Value string `json:"value"` // ISO 日期，未安排为空
	Label string `json:"label"` // "Mon 2025-01-06"
}

// BoardCell 表格单元格
type BoardCell struct {
	Column        string           `json:"column"`
	Text          string           `json:"text"`
	Status        model.CellStatus `json:"status"`
	Done          bool             `json:"done"`
	PlannedDay    string           `json:"plannedDay"`
	CompletionKey string           `json:"completionKey"`
	PlannedKey    string           `json:"plannedKey"`
}

// BoardRow 表格的一周
type BoardRow struct {
	Index          int         `json:"index"`
	Label          string      `json:"label"`
	WeekCommencing string      `json:"weekCommencing"`
	Current        bool        `json:"current"`
	DayOptions     []DayOption `json:"dayOptions"`
	Cells          []BoardCell `json:"cells"`
}

// Board 训练计划表格视图
type Board struct {
	Today          string       `json:"today"`
	SessionColumns []string     `json:"sessionColumns"`
	Rows           []BoardRow   `json:"rows"`
	Stats          *model.Stats `json:"stats"`
}

// CellUpdate 单元格修改结果；Warning 非空表示保存失败（内存状态仍然有效）
type CellUpdate struct {
	Key        string           `json:"key"`
	Done       bool             `json:"done"`
	PlannedDay string           `json:"plannedDay"`
	Status     model.CellStatus `json:"status"`
	Warning    string           `json:"warning,omitempty"`
}

// Status 运行状态
type Status struct {
	SourcePath     string    `json:"sourcePath"`
	Weeks          int       `json:"weeks"`
	SessionColumns []string  `json:"sessionColumns"`
	PlanStart      string    `json:"planStart"`
	PlanEnd        string    `json:"planEnd"`
	StateLocation  string    `json:"stateLocation"`
	LastSavedAt    time.Time `json:"lastSavedAt"`
	LastSaveError  string    `json:"lastSaveError,omitempty"`
}
