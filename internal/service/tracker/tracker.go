package tracker

import (
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/AlexMcLaughlin1/sessions/internal/calculator"
	"github.com/AlexMcLaughlin1/sessions/internal/calendar"
	"github.com/AlexMcLaughlin1/sessions/internal/model"
	"github.com/AlexMcLaughlin1/sessions/internal/service/store"
	"github.com/AlexMcLaughlin1/sessions/internal/state"
)

// SaveWarning 保存失败时返回给界面的提示
const SaveWarning = "Unable to save state to disk."

var (
	ErrUnknownCell    = errors.New("cell not found in plan")
	ErrWrongKeyPrefix = errors.New("cell key has the wrong prefix for this operation")
)

// Tracker 训练计划跟踪：持有计划、会话状态与持久化
type Tracker struct {
	plan   *model.Plan
	engine *calculator.Engine
	store  *store.SessionStore
	repo   state.Repository
	now    func() time.Time

	// 规范化列名 -> 原始列名（大小写/空格不同的列名共用同一个 key）
	columns map[string]string

	mu          sync.Mutex
	lastSavedAt time.Time
	lastSaveErr error
}

// Options 可选参数
type Options struct {
	Now func() time.Time
}

// NewTracker 创建跟踪器并恢复持久化状态
//
// 读取失败、版本不一致时以空状态启动，只记录日志。
func NewTracker(plan *model.Plan, sessionStore *store.SessionStore, repo state.Repository, opts Options) *Tracker {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	t := &Tracker{
		plan:    plan,
		engine:  calculator.NewEngine(plan),
		store:   sessionStore,
		repo:    repo,
		now:     now,
		columns: make(map[string]string, len(plan.SessionColumns)),
	}
	for _, col := range plan.SessionColumns {
		norm := model.NormalizeColumn(col)
		if _, ok := t.columns[norm]; !ok {
			t.columns[norm] = col
		}
	}

	t.restore()
	return t
}

func (t *Tracker) restore() {
	env, err := t.repo.Load()
	if err != nil {
		log.Printf("读取状态失败，使用空状态: %v", err)
		return
	}
	if env == nil {
		return
	}

	completion, planned, err := state.Restore(env)
	if err != nil {
		log.Printf("状态文件无效，使用空状态: %v", err)
		return
	}

	keptCompletion := make(model.CompletionState, len(completion))
	for k, v := range completion {
		if _, _, err := t.resolve(k); err == nil {
			keptCompletion[k] = v
		}
	}
	keptPlanned := make(model.PlannedDayState, len(planned))
	for k, v := range planned {
		if day, ok := t.validPlannedDay(k, v); ok {
			keptPlanned[k] = day
		}
	}
	t.store.Replace(keptCompletion, keptPlanned)

	done, days := t.store.Count()
	log.Printf("已恢复状态 (%s): %d 条完成记录, %d 条计划日期", env.SavedAt, done, days)
}

// Plan 训练计划（只读）
func (t *Tracker) Plan() *model.Plan {
	return t.plan
}

// Today 当前日期
func (t *Tracker) Today() time.Time {
	return calendar.Day(t.now())
}

// Stats 按当前状态计算汇总
func (t *Tracker) Stats() *model.Stats {
	return t.engine.Calculate(t.store.Completion(), t.Today())
}

// Board 生成表格视图
func (t *Tracker) Board() *Board {
	today := t.Today()
	completion := t.store.Completion()
	planned := t.store.Planned()
	weekStarts := t.engine.WeekStarts()
	stats := t.engine.Calculate(completion, today)

	board := &Board{
		Today:          calendar.FormatISO(today),
		SessionColumns: append([]string(nil), t.plan.SessionColumns...),
		Rows:           make([]BoardRow, 0, len(t.plan.Rows)),
		Stats:          stats,
	}

	for i, row := range t.plan.Rows {
		start := weekStarts[i]
		boardRow := BoardRow{
			Index:          row.Index,
			Label:          row.Label,
			WeekCommencing: calendar.FormatISO(start),
			Current:        i == stats.CurrentWeekIndex,
			DayOptions:     dayOptions(start),
			Cells:          make([]BoardCell, 0, len(t.plan.SessionColumns)),
		}
		for _, col := range t.plan.SessionColumns {
			ck := model.CompletionKey(row.Index, col)
			pk := ck.Planned()
			done := completion[ck]
			boardRow.Cells = append(boardRow.Cells, BoardCell{
				Column:        col,
				Text:          row.Session(col),
				Status:        calculator.CellStatus(done, start, today),
				Done:          done,
				PlannedDay:    planned[pk],
				CompletionKey: ck.String(),
				PlannedKey:    pk.String(),
			})
		}
		board.Rows = append(board.Rows, boardRow)
	}

	return board
}

func dayOptions(start time.Time) []DayOption {
	options := []DayOption{{Value: "", Label: UnplannedLabel}}
	for _, day := range calendar.WeekDates(start) {
		options = append(options, DayOption{
			Value: calendar.FormatISO(day),
			Label: calendar.DayLabel(day),
		})
	}
	return options
}

// ToggleCompletion 切换单元格完成状态并保存
func (t *Tracker) ToggleCompletion(key model.CellKey) (*CellUpdate, error) {
	if key.Prefix != model.PrefixCompleted {
		return nil, ErrWrongKeyPrefix
	}
	_, start, err := t.resolve(key)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	done := t.store.ToggleCompletion(key)
	day, _ := t.store.PlannedDay(key)
	return &CellUpdate{
		Key:        key.String(),
		Done:       done,
		PlannedDay: day,
		Status:     calculator.CellStatus(done, start, t.Today()),
		Warning:    t.saveLocked(),
	}, nil
}

// SetPlannedDay 设置或取消单元格的计划日期并保存
//
// value 为空、"Unplanned"、无法解析或不在该周七天内时视为取消安排。
// 也接受下拉框标签格式 "Mon 2025-01-06"。
func (t *Tracker) SetPlannedDay(key model.CellKey, value string) (*CellUpdate, error) {
	if key.Prefix != model.PrefixPlanned {
		return nil, ErrWrongKeyPrefix
	}
	_, start, err := t.resolve(key)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	day, ok := t.validPlannedDay(key, value)
	if ok {
		t.store.SetPlannedDay(key, day)
	} else {
		t.store.ClearPlannedDay(key)
	}

	done := t.store.IsDone(key)
	return &CellUpdate{
		Key:        key.String(),
		Done:       done,
		PlannedDay: day,
		Status:     calculator.CellStatus(done, start, t.Today()),
		Warning:    t.saveLocked(),
	}, nil
}

// SaveNow 立即保存
func (t *Tracker) SaveNow() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.saveLocked()
	return t.lastSaveErr
}

// Status 运行状态
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Status{
		SourcePath:     t.plan.SourcePath,
		Weeks:          len(t.plan.Rows),
		SessionColumns: append([]string(nil), t.plan.SessionColumns...),
		StateLocation:  t.repo.Location(),
		LastSavedAt:    t.lastSavedAt,
	}
	if starts := t.engine.WeekStarts(); len(starts) > 0 {
		s.PlanStart = calendar.FormatISO(starts[0])
		s.PlanEnd = calendar.FormatISO(calendar.WeekEnd(starts[len(starts)-1]))
	}
	if t.lastSaveErr != nil {
		s.LastSaveError = t.lastSaveErr.Error()
	}
	return s
}

// saveLocked 保存当前状态，失败返回提示文本
func (t *Tracker) saveLocked() string {
	env := state.Serialize(t.store.Completion(), t.store.Planned(), t.Today())
	if err := t.repo.Save(env); err != nil {
		log.Printf("保存状态失败: %v", err)
		t.lastSaveErr = err
		return SaveWarning
	}
	t.lastSaveErr = nil
	t.lastSavedAt = t.now().UTC()
	return ""
}

// resolve 查找 key 对应的列与周起始日
func (t *Tracker) resolve(key model.CellKey) (string, time.Time, error) {
	starts := t.engine.WeekStarts()
	if key.Week < 0 || key.Week >= len(starts) {
		return "", time.Time{}, ErrUnknownCell
	}
	col, ok := t.columns[key.Column]
	if !ok {
		return "", time.Time{}, ErrUnknownCell
	}
	return col, starts[key.Week], nil
}

// validPlannedDay 校验日期落在该单元格所在周内
func (t *Tracker) validPlannedDay(key model.CellKey, value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, UnplannedLabel) {
		return "", false
	}
	if fields := strings.Fields(value); len(fields) == 2 {
		value = fields[1]
	}

	_, start, err := t.resolve(key)
	if err != nil {
		return "", false
	}
	day, err := calendar.ParseISO(value)
	if err != nil || !calendar.Contains(start, day) {
		return "", false
	}
	return calendar.FormatISO(day), true
}
