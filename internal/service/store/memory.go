package store

import (
	"sync"

	"github.com/AlexMcLaughlin1/sessions/internal/model"
)

// SessionStore 会话内的用户编辑状态：完成标记与计划日期
//
// 只能通过下列方法修改；读取返回副本。
type SessionStore struct {
	completion model.CompletionState
	planned    model.PlannedDayState
	mu         sync.RWMutex
}

// NewSessionStore 创建空状态
func NewSessionStore() *SessionStore {
	return &SessionStore{
		completion: make(model.CompletionState),
		planned:    make(model.PlannedDayState),
	}
}

// Replace 整体替换（启动时恢复持久化状态）
func (s *SessionStore) Replace(completion model.CompletionState, planned model.PlannedDayState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.completion = make(model.CompletionState, len(completion))
	for k, v := range completion {
		s.completion[k.Completed()] = v
	}
	s.planned = make(model.PlannedDayState, len(planned))
	for k, v := range planned {
		s.planned[k.Planned()] = v
	}
}

// Completion 完成状态副本
func (s *SessionStore) Completion() model.CompletionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completion.Clone()
}

// Planned 计划日期副本
func (s *SessionStore) Planned() model.PlannedDayState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.planned.Clone()
}

// IsDone 单元格是否完成
func (s *SessionStore) IsDone(key model.CellKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completion[key.Completed()]
}

// PlannedDay 单元格计划日期，未安排返回 ""
func (s *SessionStore) PlannedDay(key model.CellKey) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	day, ok := s.planned[key.Planned()]
	return day, ok
}

// ToggleCompletion 切换完成状态，返回切换后的值
func (s *SessionStore) ToggleCompletion(key model.CellKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key = key.Completed()
	done := !s.completion[key]
	s.completion[key] = done
	return done
}

// SetPlannedDay 设置计划日期（ISO 格式，调用方负责校验）
func (s *SessionStore) SetPlannedDay(key model.CellKey, day string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.planned[key.Planned()] = day
}

// ClearPlannedDay 取消计划
func (s *SessionStore) ClearPlannedDay(key model.CellKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.planned, key.Planned())
}

// Count 已记录的完成/计划条目数
func (s *SessionStore) Count() (completion int, planned int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.completion), len(s.planned)
}
