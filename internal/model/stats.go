package model

// CellStatus 单元格显示状态
type CellStatus string

const (
	CellCompleted CellStatus = "completed"
	CellMissed    CellStatus = "missed"
	CellPending   CellStatus = "pending"
)

// Stats 训练进度汇总
type Stats struct {
	TotalSessions    int                 `json:"totalSessions"`
	CompletedCount   int                 `json:"completedCount"`
	MissedCount      int                 `json:"missedCount"`
	CompletedPct     float64             `json:"completedPct"`
	MissedPct        float64             `json:"missedPct"`
	PlanProgressPct  float64             `json:"planProgressPct"`
	DaysRemaining    int                 `json:"daysRemaining"`
	CurrentWeekIndex int                 `json:"currentWeekIndex"`
	Distances        DisciplineDistances `json:"distances"` // 已完成训练的距离
	GymSessionCount  int                 `json:"gymSessionCount"`
}
