package model

import "time"

// PlanRow 训练计划中的一周
type PlanRow struct {
	Index          int               `json:"index"`          // 0 起始，与表格行顺序一致
	Label          string            `json:"label"`          // Week 列，缺省为 index+1
	WeekCommencing time.Time         `json:"weekCommencing"` // 对齐后的周起始日
	SourceDate     time.Time         `json:"sourceDate"`     // 表格中的原始日期
	Sessions       map[string]string `json:"sessions"`       // 列名 -> 训练描述
}

// Session 获取某列的训练描述，不存在时返回空串
func (r PlanRow) Session(column string) string {
	if r.Sessions == nil {
		return ""
	}
	return r.Sessions[column]
}

// Plan 导入后的训练计划（启动时加载一次，之后只读）
type Plan struct {
	SourcePath     string    `json:"sourcePath"`
	SessionColumns []string  `json:"sessionColumns"`
	Rows           []PlanRow `json:"rows"`
}

// WeekStarts 返回每周起始日
func (p *Plan) WeekStarts() []time.Time {
	starts := make([]time.Time, len(p.Rows))
	for i, row := range p.Rows {
		starts[i] = row.WeekCommencing
	}
	return starts
}

// DisciplineDistances 各项目距离（公里）
type DisciplineDistances struct {
	Swim float64 `json:"swim"`
	Bike float64 `json:"bike"`
	Run  float64 `json:"run"`
}

// Add 累加距离
func (d DisciplineDistances) Add(other DisciplineDistances) DisciplineDistances {
	return DisciplineDistances{
		Swim: d.Swim + other.Swim,
		Bike: d.Bike + other.Bike,
		Run:  d.Run + other.Run,
	}
}

// IsZero 是否全部为 0
func (d DisciplineDistances) IsZero() bool {
	return d.Swim == 0 && d.Bike == 0 && d.Run == 0
}
