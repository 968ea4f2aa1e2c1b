package model

// CompletionState 完成状态：key 不存在即未完成
type CompletionState map[CellKey]bool

// PlannedDayState 计划日期：值为 ISO 日期（2006-01-02），key 不存在即未安排
type PlannedDayState map[CellKey]string

// Clone 复制一份
func (c CompletionState) Clone() CompletionState {
	out := make(CompletionState, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Done 单元格是否已完成
func (c CompletionState) Done(key CellKey) bool {
	return c[key.Completed()]
}

// Clone 复制一份
func (p PlannedDayState) Clone() PlannedDayState {
	out := make(PlannedDayState, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
